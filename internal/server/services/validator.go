package services

import (
	"context"
	"fmt"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/repositories/cards"
)

const (
	maxDeckNameLength = 100

	// Tournament legal-copy limits.
	minCardQuantity = 1
	maxCardQuantity = 4

	defaultCategory = "main"
)

// Validator checks proposed deck mutations before anything is written.
type Validator struct {
	catalog cards.Repository
}

func NewValidator(catalog cards.Repository) *Validator {
	return &Validator{catalog: catalog}
}

// ValidateName rejects empty names and names over 100 characters.
func (v *Validator) ValidateName(name string) error {
	if name == "" || len([]rune(name)) > maxDeckNameLength {
		return common.ErrInvalidName
	}
	return nil
}

// ValidateCardSet checks a proposed card set and returns its normalized
// form. An empty set fails with ErrEmptyDeck; a card id missing from the
// catalog fails with ErrUnknownCard. Quantities are defaulted to 1 and
// clamped into [1, 4] rather than rejected, so resubmitting the same
// list always yields the same result. Duplicate card ids collapse to a
// single entry, last one wins. Categories default to "main".
func (v *Validator) ValidateCardSet(ctx context.Context, entries []models.CardEntry) ([]models.CardEntry, error) {
	if len(entries) == 0 {
		return nil, common.ErrEmptyDeck
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.CardID]; ok {
			continue
		}
		seen[e.CardID] = struct{}{}
		ids = append(ids, e.CardID)
	}

	existing, err := v.catalog.ExistsBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error checking card catalog: %w", err)
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrUnknownCard, id)
		}
	}

	normalized := make([]models.CardEntry, 0, len(ids))
	index := make(map[string]int, len(ids))
	for _, e := range entries {
		e.Quantity = clampQuantity(e.Quantity)
		if e.Category == "" {
			e.Category = defaultCategory
		}
		if i, ok := index[e.CardID]; ok {
			normalized[i] = e
			continue
		}
		index[e.CardID] = len(normalized)
		normalized = append(normalized, e)
	}

	return normalized, nil
}

func clampQuantity(q int) int {
	if q < minCardQuantity {
		// covers the omitted/zero case, which defaults to 1
		return minCardQuantity
	}
	if q > maxCardQuantity {
		return maxCardQuantity
	}
	return q
}
