package cards

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// passthroughConverter lets sqlmock accept []string arguments, matching the
// pgx stdlib driver, which binds slices natively via CheckNamedValue.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	return driver.Value(v), nil
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(passthroughConverter{}),
	)
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestExistsBatch_ReturnsExistingSubset(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id"}).AddRow("cX").AddRow("cY")

	mock.ExpectQuery(`SELECT id FROM cards WHERE id = ANY\(\$1\)`).
		WillReturnRows(rows)

	got, err := repo.ExistsBatch(context.Background(), []string{"cX", "cY", "cMissing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 ids, got %d", len(got))
	}
	if _, ok := got["cX"]; !ok {
		t.Fatalf("expected cX to exist")
	}
	if _, ok := got["cMissing"]; ok {
		t.Fatalf("cMissing must not be reported as existing")
	}
}

func TestExistsBatch_EmptyInputSkipsQuery(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	got, err := repo.ExistsBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements should run for an empty batch: %v", err)
	}
}

func TestExistsBatch_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM cards WHERE id = ANY\(\$1\)`).
		WillReturnError(errors.New("db err"))

	_, err := repo.ExistsBatch(context.Background(), []string{"cX"})
	if err == nil || !regexp.MustCompile(`failed to select cards: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped select error, got %v", err)
	}
}
