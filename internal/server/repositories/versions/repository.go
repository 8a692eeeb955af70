// Package versions provides persistence for the immutable version
// history of a deck: deck_versions rows and their snapshot cards.
package versions

import (
	"context"

	"github.com/deckforge/deckforge/internal/server/models"
)

type Repository interface {
	// Create inserts a version row. A unique-constraint violation on
	// (deck_id, version) is returned as common.ErrVersionConflict.
	Create(ctx context.Context, version *models.DeckVersion) (*models.DeckVersion, error)

	// InsertCards bulk-inserts snapshot card rows for a version.
	InsertCards(ctx context.Context, cards []models.DeckVersionCard) error

	// MaxVersion returns the highest version number for a deck, 0 if the
	// deck has no versions yet. Call it inside the same transaction as
	// the Create that consumes the result.
	MaxVersion(ctx context.Context, deckID string) (int64, error)

	// ListByDeck returns version summaries for a deck, newest first,
	// with card statistics aggregated against the catalog.
	ListByDeck(ctx context.Context, deckID string) ([]models.VersionSummary, error)

	// GetByID returns the version row or common.ErrNotFound.
	GetByID(ctx context.Context, versionID string) (*models.DeckVersion, error)

	// GetCards returns the snapshot card rows of a version.
	GetCards(ctx context.Context, versionID string) ([]models.DeckVersionCard, error)

	// GetCardDetails returns the snapshot cards joined with catalog
	// name and cost.
	GetCardDetails(ctx context.Context, versionID string) ([]models.VersionCardDetail, error)

	// CountByDeck returns the number of versions a deck has.
	CountByDeck(ctx context.Context, deckID string) (int64, error)

	// Delete removes a version; its snapshot cards cascade.
	Delete(ctx context.Context, versionID string) error
}
