// Package deckcards provides persistence for a deck's live card set —
// the editable working state, as opposed to archived version cards.
package deckcards

import (
	"context"

	"github.com/deckforge/deckforge/internal/server/models"
)

type Repository interface {
	// ListByDeck returns the live card rows for a deck, ordered by card id.
	ListByDeck(ctx context.Context, deckID string) ([]models.DeckCard, error)

	// DeleteByDeck removes every live card row for a deck.
	DeleteByDeck(ctx context.Context, deckID string) error

	// InsertBatch inserts the given rows. Callers are expected to have
	// deduplicated entries per card id first.
	InsertBatch(ctx context.Context, cards []models.DeckCard) error
}
