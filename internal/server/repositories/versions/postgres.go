package versions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

func (r *PostgresRepository) Create(ctx context.Context, version *models.DeckVersion) (*models.DeckVersion, error) {

	if version.ID == "" {
		version.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO deck_versions (id, deck_id, version, name, description, version_name, change_note, is_public, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		version.ID, version.DeckID, version.Version, version.Name, version.Description,
		version.VersionName, version.ChangeNote, version.IsPublic, version.CreatedBy).
		Scan(&version.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return version, nil
}

func (r *PostgresRepository) InsertCards(ctx context.Context, cards []models.DeckVersionCard) error {
	if len(cards) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT INTO deck_version_cards (id, version_id, card_id, quantity, category) VALUES `)
	args := make([]any, 0, len(cards)*5)
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = uuid.NewString()
		}
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d)", i*5+1, i*5+2, i*5+3, i*5+4, i*5+5)
		args = append(args, cards[i].ID, cards[i].VersionID, cards[i].CardID, cards[i].Quantity, cards[i].Category)
	}

	if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MaxVersion(ctx context.Context, deckID string) (int64, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM deck_versions WHERE deck_id = $1`

	var max int64
	if err := r.db.QueryRowContext(ctx, query, deckID).Scan(&max); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return max, nil
}

func (r *PostgresRepository) ListByDeck(ctx context.Context, deckID string) ([]models.VersionSummary, error) {
	query :=
		`SELECT v.id, v.version, v.version_name, v.change_note, v.created_by, v.created_at,
		        COALESCE(SUM(vc.quantity), 0),
		        COUNT(vc.card_id),
		        COALESCE(SUM(vc.quantity * c.cost), 0)
		 FROM deck_versions v
		 LEFT JOIN deck_version_cards vc ON vc.version_id = v.id
		 LEFT JOIN cards c ON c.id = vc.card_id
		 WHERE v.deck_id = $1
		 GROUP BY v.id, v.version, v.version_name, v.change_note, v.created_by, v.created_at
		 ORDER BY v.version DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to select versions: %w", err)
	}
	defer rows.Close()

	var result []models.VersionSummary
	for rows.Next() {
		var item models.VersionSummary
		if err := rows.Scan(
			&item.ID, &item.Version, &item.VersionName, &item.ChangeNote,
			&item.CreatedBy, &item.CreatedAt,
			&item.CardCount, &item.UniqueCards, &item.TotalCost,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, versionID string) (*models.DeckVersion, error) {
	query :=
		`SELECT id, deck_id, version, name, description, version_name, change_note, is_public, created_by, created_at
		 FROM deck_versions
		 WHERE id = $1
		 `

	version := &models.DeckVersion{}
	err := r.db.QueryRowContext(ctx, query, versionID).Scan(
		&version.ID, &version.DeckID, &version.Version, &version.Name, &version.Description,
		&version.VersionName, &version.ChangeNote, &version.IsPublic, &version.CreatedBy, &version.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return version, nil
}

func (r *PostgresRepository) GetCards(ctx context.Context, versionID string) ([]models.DeckVersionCard, error) {
	query :=
		`SELECT id, version_id, card_id, quantity, category
		 FROM deck_version_cards
		 WHERE version_id = $1
		 ORDER BY card_id
		 `

	rows, err := r.db.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to select version cards: %w", err)
	}
	defer rows.Close()

	var result []models.DeckVersionCard
	for rows.Next() {
		var item models.DeckVersionCard
		if err := rows.Scan(&item.ID, &item.VersionID, &item.CardID, &item.Quantity, &item.Category); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetCardDetails(ctx context.Context, versionID string) ([]models.VersionCardDetail, error) {
	query :=
		`SELECT vc.card_id, c.name, c.cost, vc.quantity, vc.category
		 FROM deck_version_cards vc
		 JOIN cards c ON c.id = vc.card_id
		 WHERE vc.version_id = $1
		 ORDER BY vc.card_id
		 `

	rows, err := r.db.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to select version card details: %w", err)
	}
	defer rows.Close()

	var result []models.VersionCardDetail
	for rows.Next() {
		var item models.VersionCardDetail
		if err := rows.Scan(&item.CardID, &item.CardName, &item.Cost, &item.Quantity, &item.Category); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByDeck(ctx context.Context, deckID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deck_versions WHERE deck_id = $1`, deckID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, versionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deck_versions WHERE id = $1`, versionID)
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
