package services

import (
	"context"

	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
)

// Synchronizer replaces a deck's live card set with a new one. It is a
// full replace, not a diff: the caller supplies the complete desired
// state and the prior state is preserved by a version snapshot, not by
// merging. Must run inside the caller's transaction.
type Synchronizer struct {
	repos repomanager.RepositoryManager
}

func NewSynchronizer(repos repomanager.RepositoryManager) *Synchronizer {
	return &Synchronizer{repos: repos}
}

// Replace deletes every live card row for the deck and inserts one row
// per entry. Entries are expected to be validated and normalized.
func (s *Synchronizer) Replace(ctx context.Context, tx dbx.DBTX, deckID string, entries []models.CardEntry) error {
	repo := s.repos.DeckCards(tx)

	if err := repo.DeleteByDeck(ctx, deckID); err != nil {
		return err
	}

	rows := make([]models.DeckCard, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.DeckCard{
			DeckID:   deckID,
			CardID:   e.CardID,
			Quantity: e.Quantity,
			Category: e.Category,
		})
	}

	return repo.InsertBatch(ctx, rows)
}
