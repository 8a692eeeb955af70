package decks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, deck *models.Deck) (*models.Deck, error) {

	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO decks (id, owner_id, name, description, is_public)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		deck.ID, deck.OwnerID, deck.Name, deck.Description, deck.IsPublic).
		Scan(&deck.CreatedAt, &deck.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deck, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query :=
		`SELECT id, owner_id, name, description, is_public, current_version, version_name, created_at, updated_at
		 FROM decks
		 WHERE id = $1
		 `

	deck := &models.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID, &deck.OwnerID, &deck.Name, &deck.Description, &deck.IsPublic,
		&deck.CurrentVersion, &deck.VersionName, &deck.CreatedAt, &deck.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deck, nil
}

func (r *PostgresRepository) Update(ctx context.Context, deck *models.Deck) error {
	query :=
		`UPDATE decks
		 SET name = $2, description = $3, is_public = $4, current_version = $5, version_name = $6, updated_at = $7
		 WHERE id = $1
		 `

	deck.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query,
		deck.ID, deck.Name, deck.Description, deck.IsPublic,
		deck.CurrentVersion, deck.VersionName, deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
