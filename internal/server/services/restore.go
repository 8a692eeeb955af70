package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
)

// Restorer overwrites a deck's live state with a prior version's state.
// A restore is never destructive to history: the current live state is
// always snapshotted first, even when empty, because the restore itself
// is a destructive action worth recording.
type Restorer struct {
	repos        repomanager.RepositoryManager
	snapshotter  *Snapshotter
	synchronizer *Synchronizer
}

func NewRestorer(repos repomanager.RepositoryManager, snapshotter *Snapshotter, synchronizer *Synchronizer) *Restorer {
	return &Restorer{repos: repos, snapshotter: snapshotter, synchronizer: synchronizer}
}

// RestoreToVersion runs the whole restore in one transaction: backup
// snapshot of the live state, full replace with the target version's
// cards, then deck metadata and version pointer updates. The deck's
// currentVersion becomes backup version + 1 — the slot the restored
// state conceptually occupies; no version row is guaranteed to exist at
// that exact number.
func (r *Restorer) RestoreToVersion(ctx context.Context, db *sql.DB, deckID, actorID, versionID string) (*models.RestoreResult, error) {

	var result *models.RestoreResult

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deck, err := loadOwnedDeck(ctx, r.repos, tx, deckID, actorID)
		if err != nil {
			return err
		}

		versionRepo := r.repos.Versions(tx)

		target, err := versionRepo.GetByID(ctx, versionID)
		if err != nil {
			return err
		}
		if target.DeckID != deckID {
			return common.ErrNotFound
		}

		targetCards, err := versionRepo.GetCards(ctx, target.ID)
		if err != nil {
			return err
		}

		backup, err := r.snapshotter.SnapshotLive(ctx, tx, deck,
			fmt.Sprintf("Before restoring to v%d", target.Version),
			fmt.Sprintf("Automatic backup before restoring to version %d", target.Version),
			actorID)
		if err != nil {
			return err
		}

		entries := make([]models.CardEntry, 0, len(targetCards))
		for _, c := range targetCards {
			entries = append(entries, models.CardEntry{
				CardID:   c.CardID,
				Quantity: c.Quantity,
				Category: c.Category,
			})
		}
		if err := r.synchronizer.Replace(ctx, tx, deckID, entries); err != nil {
			return err
		}

		// Card content and descriptive metadata are restored together.
		deck.Name = target.Name
		deck.Description = target.Description
		deck.VersionName = fmt.Sprintf("Restored from v%d", target.Version)
		deck.CurrentVersion = backup.Version + 1
		if err := r.repos.Decks(tx).Update(ctx, deck); err != nil {
			return err
		}

		result = &models.RestoreResult{
			RestoredFromVersion: target.Version,
			NewCurrentVersion:   deck.CurrentVersion,
		}
		return nil
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error restoring deck: %w", err)
	}

	return result, nil
}
