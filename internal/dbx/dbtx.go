// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and detection of
// unique-constraint violations.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    // use tx instead of db
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// pgUniqueViolationCode is the PostgreSQL error code for unique_violation.
const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Repositories use it to translate version-number races into
// retryable domain errors.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}
