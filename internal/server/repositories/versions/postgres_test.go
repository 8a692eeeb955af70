package versions

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := regexp.MustCompile(`INSERT INTO deck_versions .* RETURNING created_at`)

	mock.ExpectQuery(q.String()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	version, err := repo.Create(context.Background(), &models.DeckVersion{
		DeckID: "d1", Version: 1, Name: "Burn", VersionName: "Version 1", CreatedBy: "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version.ID == "" {
		t.Fatalf("expected generated version id")
	}
	if !version.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at to be scanned")
	}
}

func TestCreate_UniqueViolationIsVersionConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO deck_versions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "deck_versions_deck_id_version_key"})

	_, err := repo.Create(context.Background(), &models.DeckVersion{DeckID: "d1", Version: 2})
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want ErrVersionConflict, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO deck_versions`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.Create(context.Background(), &models.DeckVersion{DeckID: "d1", Version: 1})
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestInsertCards_BuildsMultiRowInsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`INSERT INTO deck_version_cards \(id, version_id, card_id, quantity, category\) VALUES \(\$1, \$2, \$3, \$4, \$5\), \(\$6, \$7, \$8, \$9, \$10\)`)

	mock.ExpectExec(q.String()).WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.InsertCards(context.Background(), []models.DeckVersionCard{
		{VersionID: "v1", CardID: "cX", Quantity: 2, Category: "main"},
		{VersionID: "v1", CardID: "cY", Quantity: 3, Category: "main"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMaxVersion_ZeroWhenNoVersions(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) FROM deck_versions WHERE deck_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

	max, err := repo.MaxVersion(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if max != 0 {
		t.Fatalf("want 0, got %d", max)
	}
}

func TestListByDeck_ScansAggregates(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "version", "version_name", "change_note", "created_by", "created_at",
		"card_count", "unique_cards", "total_cost",
	}).
		AddRow("v2", int64(2), "Version 2", "", "u1", now, int64(9), int64(3), int64(27)).
		AddRow("v1", int64(1), "Version 1", "initial", "u1", now, int64(5), int64(2), int64(10))

	mock.ExpectQuery(`SELECT v\.id, v\.version, v\.version_name`).
		WithArgs("d1").
		WillReturnRows(rows)

	got, err := repo.ListByDeck(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 summaries, got %d", len(got))
	}
	if got[0].Version != 2 || got[0].CardCount != 9 || got[0].UniqueCards != 3 || got[0].TotalCost != 27 {
		t.Fatalf("unexpected first summary: %+v", got[0])
	}
	if got[1].ChangeNote != "initial" {
		t.Fatalf("unexpected second summary: %+v", got[1])
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, deck_id, version`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetCards_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "version_id", "card_id", "quantity", "category"}).
		AddRow("vc1", "v1", "cX", 2, "main").
		AddRow("vc2", "v1", "cY", 3, "main")

	mock.ExpectQuery(`SELECT id, version_id, card_id, quantity, category`).
		WithArgs("v1").
		WillReturnRows(rows)

	got, err := repo.GetCards(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].CardID != "cX" || got[1].Quantity != 3 {
		t.Fatalf("unexpected cards: %+v", got)
	}
}

func TestGetCardDetails_JoinsCatalog(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"card_id", "name", "cost", "quantity", "category"}).
		AddRow("cX", "Fire Bolt", 1, 4, "main")

	mock.ExpectQuery(`SELECT vc\.card_id, c\.name, c\.cost, vc\.quantity, vc\.category`).
		WithArgs("v1").
		WillReturnRows(rows)

	got, err := repo.GetCardDetails(context.Background(), "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].CardName != "Fire Bolt" || got[0].Cost != 1 {
		t.Fatalf("unexpected details: %+v", got)
	}
}

func TestCountByDeck(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM deck_versions WHERE deck_id = \$1`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	count, err := repo.CountByDeck(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2, got %d", count)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM deck_versions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
