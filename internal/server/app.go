// Package server initializes and runs the deckforge application server.
// It opens the database, runs migrations, wires the revision service and
// HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/deckforge/deckforge/internal/logging"
	"github.com/deckforge/deckforge/internal/server/config"
	"github.com/deckforge/deckforge/internal/server/httpapi"
	"github.com/deckforge/deckforge/internal/server/repositories/repomanager"
	"github.com/deckforge/deckforge/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	svc := services.NewRevisionService(db, repos, logger)
	handler := httpapi.NewRouter(svc, logger)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{Addr: app.config.EndpointAddrHTTP, Handler: app.handler}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
