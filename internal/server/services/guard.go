package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
)

// LifecycleGuard enforces the version-history invariants on deletion:
// once a deck has versions, the history never becomes empty again, since
// currentVersion and restore semantics assume at least one anchor point.
type LifecycleGuard struct {
	repos repomanager.RepositoryManager
}

func NewLifecycleGuard(repos repomanager.RepositoryManager) *LifecycleGuard {
	return &LifecycleGuard{repos: repos}
}

// DeleteVersion removes a version and its snapshot cards. Deleting the
// deck's only remaining version fails with ErrLastVersionUndeletable.
func (g *LifecycleGuard) DeleteVersion(ctx context.Context, db *sql.DB, deckID, actorID, versionID string) error {

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := loadOwnedDeck(ctx, g.repos, tx, deckID, actorID); err != nil {
			return err
		}

		versionRepo := g.repos.Versions(tx)

		version, err := versionRepo.GetByID(ctx, versionID)
		if err != nil {
			return err
		}
		if version.DeckID != deckID {
			return common.ErrNotFound
		}

		count, err := versionRepo.CountByDeck(ctx, deckID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return common.ErrLastVersionUndeletable
		}

		return versionRepo.Delete(ctx, versionID)
	})

	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("error deleting version: %w", err)
	}
	return nil
}
