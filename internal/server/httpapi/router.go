// Package httpapi exposes the revision engine over HTTP with thin JSON
// handlers. Authentication happens upstream: the gateway resolves the
// session and forwards the actor id in the X-User-ID header, which is
// all this layer trusts.
package httpapi

import (
	"context"
	"net/http"

	"github.com/deckforge/deckforge/internal/logging"
	"github.com/deckforge/deckforge/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const actorKey contextKey = "actor_id"

// NewRouter builds the chi router for the deck revision API.
func NewRouter(svc *services.RevisionService, logger logging.Logger) http.Handler {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/decks", func(r chi.Router) {
		r.Use(requireActor)
		r.Post("/", h.CreateDeck)
		r.Route("/{deckID}", func(r chi.Router) {
			r.Get("/", h.GetDeck)
			r.Put("/", h.UpdateDeck)
			r.Delete("/", h.DeleteDeck)
			r.Route("/versions", func(r chi.Router) {
				r.Get("/", h.ListVersions)
				r.Post("/", h.CreateVersion)
				r.Route("/{versionID}", func(r chi.Router) {
					r.Get("/", h.GetVersion)
					r.Post("/restore", h.RestoreVersion)
					r.Delete("/", h.DeleteVersion)
				})
			})
		})
	})
	return r
}

// requireActor rejects requests without a resolved actor id.
func requireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get("X-User-ID")
		if actorID == "" {
			http.Error(w, "missing X-User-ID header", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFromContext returns the actor id stored by requireActor.
func actorFromContext(ctx context.Context) string {
	actorID, _ := ctx.Value(actorKey).(string)
	return actorID
}
