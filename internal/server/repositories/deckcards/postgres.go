package deckcards

import (
	"context"
	"fmt"
	"strings"

	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByDeck(ctx context.Context, deckID string) ([]models.DeckCard, error) {
	query :=
		`SELECT deck_id, card_id, quantity, category
		 FROM deck_cards
		 WHERE deck_id = $1
		 ORDER BY card_id
		 `

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to select deck cards: %w", err)
	}
	defer rows.Close()

	var result []models.DeckCard
	for rows.Next() {
		var item models.DeckCard
		if err := rows.Scan(&item.DeckID, &item.CardID, &item.Quantity, &item.Category); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteByDeck(ctx context.Context, deckID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, deckID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertBatch(ctx context.Context, cards []models.DeckCard) error {
	if len(cards) == 0 {
		return nil
	}

	// One multi-row INSERT; placeholders are built positionally.
	var b strings.Builder
	b.WriteString(`INSERT INTO deck_cards (deck_id, card_id, quantity, category) VALUES `)
	args := make([]any, 0, len(cards)*4)
	for i, c := range cards {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, c.DeckID, c.CardID, c.Quantity, c.Category)
	}

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
