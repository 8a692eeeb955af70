// Package services contains the deck revision engine: validation,
// snapshotting, live card-set replacement, restore and version
// lifecycle, composed behind the RevisionService facade. Every public
// mutation runs as one database transaction; validation happens before
// any write, so a failed operation leaves no partial effect.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/logging"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
)

const autoBackupNote = "Automatic version created before deck update"

// RevisionService is the public face of the engine. It owns the
// transaction boundaries and composes the validator, snapshotter,
// synchronizer, restorer and lifecycle guard.
type RevisionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger

	validator    *Validator
	snapshotter  *Snapshotter
	synchronizer *Synchronizer
	restorer     *Restorer
	guard        *LifecycleGuard
}

func NewRevisionService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *RevisionService {
	snapshotter := NewSnapshotter(repos)
	synchronizer := NewSynchronizer(repos)
	return &RevisionService{
		db:           db,
		repos:        repos,
		logger:       logger.With("module", "revision_service"),
		validator:    NewValidator(repos.Cards(db)),
		snapshotter:  snapshotter,
		synchronizer: synchronizer,
		restorer:     NewRestorer(repos, snapshotter, synchronizer),
		guard:        NewLifecycleGuard(repos),
	}
}

// loadOwnedDeck fetches a deck and enforces that actorID owns it.
func loadOwnedDeck(ctx context.Context, repos repomanager.RepositoryManager, tx dbx.DBTX, deckID, actorID string) (*models.Deck, error) {
	deck, err := repos.Decks(tx).GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != actorID {
		return nil, common.ErrForbidden
	}
	return deck, nil
}

// loadReadableDeck fetches a deck readable by actorID: its owner, or
// anyone when the deck is public.
func loadReadableDeck(ctx context.Context, repos repomanager.RepositoryManager, db dbx.DBTX, deckID, actorID string) (*models.Deck, error) {
	deck, err := repos.Decks(db).GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != actorID && !deck.IsPublic {
		return nil, common.ErrForbidden
	}
	return deck, nil
}

// UpdateWithCards applies metadata changes and, when newCards is
// non-nil, replaces the deck's live card set. If the deck had at least
// one live card, the prior state is snapshotted first so it stays
// recoverable. Everything runs in one transaction.
func (s *RevisionService) UpdateWithCards(ctx context.Context, deckID, actorID string, update models.DeckUpdate, newCards []models.CardEntry) (*models.Deck, []models.DeckCard, error) {

	if update.Name != nil {
		if err := s.validator.ValidateName(*update.Name); err != nil {
			return nil, nil, err
		}
	}

	var normalized []models.CardEntry
	if newCards != nil {
		var err error
		normalized, err = s.validator.ValidateCardSet(ctx, newCards)
		if err != nil {
			return nil, nil, err
		}
	}

	var deck *models.Deck
	var liveCards []models.DeckCard

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		deck, err = loadOwnedDeck(ctx, s.repos, tx, deckID, actorID)
		if err != nil {
			return err
		}

		if newCards != nil {
			prior, err := s.repos.DeckCards(tx).ListByDeck(ctx, deckID)
			if err != nil {
				return err
			}

			// Only snapshot when there is prior state worth keeping;
			// a first-ever card list produces no empty version.
			if len(prior) > 0 {
				version, err := s.snapshotter.SnapshotLive(ctx, tx, deck, "", autoBackupNote, actorID)
				if err != nil {
					return err
				}
				deck.CurrentVersion = version.Version
			}

			if err := s.synchronizer.Replace(ctx, tx, deckID, normalized); err != nil {
				return err
			}
		}

		if update.Name != nil {
			deck.Name = *update.Name
		}
		if update.Description != nil {
			deck.Description = *update.Description
		}
		if update.IsPublic != nil {
			deck.IsPublic = *update.IsPublic
		}

		if err := s.repos.Decks(tx).Update(ctx, deck); err != nil {
			return err
		}

		liveCards, err = s.repos.DeckCards(tx).ListByDeck(ctx, deckID)
		return err
	})

	if err != nil {
		if isDomainError(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error updating deck: %w", err)
	}

	s.logger.Info(ctx, "deck updated", "deck_id", deckID, "cards_replaced", newCards != nil, "current_version", deck.CurrentVersion)
	return deck, liveCards, nil
}

// CreateNamedVersion snapshots the deck's current live state as an
// explicitly saved version and advances the deck's version pointer.
func (s *RevisionService) CreateNamedVersion(ctx context.Context, deckID, actorID, versionName, changeNote string) (*models.DeckVersion, error) {

	var version *models.DeckVersion

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deck, err := loadOwnedDeck(ctx, s.repos, tx, deckID, actorID)
		if err != nil {
			return err
		}

		version, err = s.snapshotter.SnapshotLive(ctx, tx, deck, versionName, changeNote, actorID)
		if err != nil {
			return err
		}

		deck.CurrentVersion = version.Version
		deck.VersionName = version.VersionName
		return s.repos.Decks(tx).Update(ctx, deck)
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating version: %w", err)
	}

	s.logger.Info(ctx, "version created", "deck_id", deckID, "version", version.Version)
	return version, nil
}

// ListVersions returns version summaries for a deck, newest first.
func (s *RevisionService) ListVersions(ctx context.Context, deckID, actorID string) ([]models.VersionSummary, error) {
	if _, err := loadReadableDeck(ctx, s.repos, s.db, deckID, actorID); err != nil {
		return nil, err
	}
	return s.repos.Versions(s.db).ListByDeck(ctx, deckID)
}

// GetVersion returns one version with its card entries. A version that
// belongs to a different deck is reported as not found.
func (s *RevisionService) GetVersion(ctx context.Context, deckID, actorID, versionID string) (*models.VersionDetail, error) {
	if _, err := loadReadableDeck(ctx, s.repos, s.db, deckID, actorID); err != nil {
		return nil, err
	}

	versionRepo := s.repos.Versions(s.db)

	version, err := versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.DeckID != deckID {
		return nil, common.ErrNotFound
	}

	cards, err := versionRepo.GetCardDetails(ctx, versionID)
	if err != nil {
		return nil, err
	}

	return &models.VersionDetail{DeckVersion: *version, Cards: cards}, nil
}

// RestoreToVersion restores the deck's live state to a prior version,
// backing up the current state first.
func (s *RevisionService) RestoreToVersion(ctx context.Context, deckID, actorID, versionID string) (*models.RestoreResult, error) {
	result, err := s.restorer.RestoreToVersion(ctx, s.db, deckID, actorID, versionID)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "deck restored", "deck_id", deckID,
		"restored_from", result.RestoredFromVersion, "new_current_version", result.NewCurrentVersion)
	return result, nil
}

// DeleteVersion removes a version from the history, refusing to delete
// the last one.
func (s *RevisionService) DeleteVersion(ctx context.Context, deckID, actorID, versionID string) error {
	if err := s.guard.DeleteVersion(ctx, s.db, deckID, actorID, versionID); err != nil {
		return err
	}
	s.logger.Info(ctx, "version deleted", "deck_id", deckID, "version_id", versionID)
	return nil
}

// isDomainError reports whether err is one of the typed errors callers
// match on, as opposed to an unexpected storage failure.
func isDomainError(err error) bool {
	for _, target := range []error{
		common.ErrNotFound,
		common.ErrForbidden,
		common.ErrInvalidName,
		common.ErrEmptyDeck,
		common.ErrUnknownCard,
		common.ErrLastVersionUndeletable,
		common.ErrVersionConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
