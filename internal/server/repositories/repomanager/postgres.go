// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/migrations"
	"github.com/deckforge/deckforge/internal/server/repositories/cards"
	"github.com/deckforge/deckforge/internal/server/repositories/deckcards"
	"github.com/deckforge/deckforge/internal/server/repositories/decks"
	"github.com/deckforge/deckforge/internal/server/repositories/versions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Decks returns a decks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Decks(db dbx.DBTX) decks.Repository {
	return decks.NewPostgresRepository(db)
}

// DeckCards returns a deckcards.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) DeckCards(db dbx.DBTX) deckcards.Repository {
	return deckcards.NewPostgresRepository(db)
}

// Versions returns a versions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Versions(db dbx.DBTX) versions.Repository {
	return versions.NewPostgresRepository(db)
}

// Cards returns a cards.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
