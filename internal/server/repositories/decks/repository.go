// Package decks provides persistence for deck rows: the mutable,
// user-owned header each card set and version history hangs off.
package decks

import (
	"context"

	"github.com/deckforge/deckforge/internal/server/models"
)

type Repository interface {
	// Create inserts a new deck and returns it with its generated ID.
	Create(ctx context.Context, deck *models.Deck) (*models.Deck, error)

	// GetByID returns the deck or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Deck, error)

	// Update writes the deck's mutable columns (name, description,
	// is_public, current_version, version_name, updated_at).
	Update(ctx context.Context, deck *models.Deck) error

	// Delete removes the deck; live cards and the version history go
	// with it via cascading foreign keys.
	Delete(ctx context.Context, id string) error
}
