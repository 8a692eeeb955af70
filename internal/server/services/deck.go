package services

import (
	"context"
	"fmt"

	"github.com/deckforge/deckforge/internal/server/models"
)

// CreateDeck creates an empty deck owned by actorID. The version history
// starts empty; the first snapshot happens on the first card update.
func (s *RevisionService) CreateDeck(ctx context.Context, actorID, name, description string, isPublic bool) (*models.Deck, error) {
	if err := s.validator.ValidateName(name); err != nil {
		return nil, err
	}

	deck := &models.Deck{
		OwnerID:     actorID,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}

	deck, err := s.repos.Decks(s.db).Create(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("error creating deck: %w", err)
	}

	s.logger.Info(ctx, "deck created", "deck_id", deck.ID, "owner_id", actorID)
	return deck, nil
}

// GetDeck returns a deck with its live card set. Readable by the owner,
// or by anyone when the deck is public.
func (s *RevisionService) GetDeck(ctx context.Context, deckID, actorID string) (*models.Deck, []models.DeckCard, error) {
	deck, err := loadReadableDeck(ctx, s.repos, s.db, deckID, actorID)
	if err != nil {
		return nil, nil, err
	}

	cards, err := s.repos.DeckCards(s.db).ListByDeck(ctx, deckID)
	if err != nil {
		return nil, nil, err
	}

	return deck, cards, nil
}

// DeleteDeck removes the deck with its live cards and entire version
// history. This is the only path that erases a history.
func (s *RevisionService) DeleteDeck(ctx context.Context, deckID, actorID string) error {
	if _, err := loadOwnedDeck(ctx, s.repos, s.db, deckID, actorID); err != nil {
		return err
	}

	if err := s.repos.Decks(s.db).Delete(ctx, deckID); err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("error deleting deck: %w", err)
	}

	s.logger.Info(ctx, "deck deleted", "deck_id", deckID)
	return nil
}
