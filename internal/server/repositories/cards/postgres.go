package cards

import (
	"context"
	"fmt"

	"github.com/deckforge/deckforge/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ExistsBatch(ctx context.Context, ids []string) (map[string]struct{}, error) {
	result := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	// pgx binds []string natively for ANY.
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM cards WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
