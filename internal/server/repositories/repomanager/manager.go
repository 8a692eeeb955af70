package repomanager

import (
	"context"
	"database/sql"

	"github.com/deckforge/deckforge/internal/dbx"
	"github.com/deckforge/deckforge/internal/server/repositories/cards"
	"github.com/deckforge/deckforge/internal/server/repositories/deckcards"
	"github.com/deckforge/deckforge/internal/server/repositories/decks"
	"github.com/deckforge/deckforge/internal/server/repositories/versions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Decks(db dbx.DBTX) decks.Repository
	DeckCards(db dbx.DBTX) deckcards.Repository
	Versions(db dbx.DBTX) versions.Repository
	Cards(db dbx.DBTX) cards.Repository
}
