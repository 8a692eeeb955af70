package services

import (
	"context"
	"fmt"

	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
)

// Snapshotter materializes deck state into immutable DeckVersion rows.
// It never touches the live deck_cards rows. All methods must run on the
// transaction of the operation that consumes the new version number:
// the max+1 read and the insert have to be atomic, with the unique
// (deck_id, version) constraint as the backstop when isolation allows
// two writers to read the same max.
type Snapshotter struct {
	repos repomanager.RepositoryManager
}

func NewSnapshotter(repos repomanager.RepositoryManager) *Snapshotter {
	return &Snapshotter{repos: repos}
}

// NextVersion computes the next monotonic version number for a deck:
// max existing version + 1, so 1 for a deck with no versions.
func (s *Snapshotter) NextVersion(ctx context.Context, tx dbx.DBTX, deckID string) (int64, error) {
	max, err := s.repos.Versions(tx).MaxVersion(ctx, deckID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// SnapshotLive snapshots the deck's current live card set. The label
// defaults to "Version N" when empty.
func (s *Snapshotter) SnapshotLive(ctx context.Context, tx dbx.DBTX, deck *models.Deck, label, note, actorID string) (*models.DeckVersion, error) {
	live, err := s.repos.DeckCards(tx).ListByDeck(ctx, deck.ID)
	if err != nil {
		return nil, err
	}

	cards := make([]models.DeckVersionCard, 0, len(live))
	for _, c := range live {
		cards = append(cards, models.DeckVersionCard{
			CardID:   c.CardID,
			Quantity: c.Quantity,
			Category: c.Category,
		})
	}

	return s.SnapshotCards(ctx, tx, deck, cards, label, note, actorID)
}

// SnapshotCards creates one DeckVersion copying name/description/is_public
// from the deck, stamped with the next version number, and bulk-inserts
// one snapshot row per card entry, preserving quantity and category.
func (s *Snapshotter) SnapshotCards(ctx context.Context, tx dbx.DBTX, deck *models.Deck, cards []models.DeckVersionCard, label, note, actorID string) (*models.DeckVersion, error) {
	versionRepo := s.repos.Versions(tx)

	number, err := s.NextVersion(ctx, tx, deck.ID)
	if err != nil {
		return nil, err
	}

	if label == "" {
		label = fmt.Sprintf("Version %d", number)
	}

	version := &models.DeckVersion{
		DeckID:      deck.ID,
		Version:     number,
		Name:        deck.Name,
		Description: deck.Description,
		VersionName: label,
		ChangeNote:  note,
		IsPublic:    deck.IsPublic,
		CreatedBy:   actorID,
	}

	version, err = versionRepo.Create(ctx, version)
	if err != nil {
		return nil, err
	}

	for i := range cards {
		cards[i].VersionID = version.ID
	}
	if err := versionRepo.InsertCards(ctx, cards); err != nil {
		return nil, err
	}

	return version, nil
}
