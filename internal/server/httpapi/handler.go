package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/deckforge/deckforge/internal/common"
	"github.com/deckforge/deckforge/internal/logging"
	"github.com/deckforge/deckforge/internal/server/models"
	"github.com/deckforge/deckforge/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/sethvargo/go-retry"
)

const (
	// Version-number races are expected under concurrency and the whole
	// operation is safe to rerun, so retry a few times before giving up.
	conflictRetries    = 2
	conflictRetryDelay = 50 * time.Millisecond
)

type Handler struct {
	svc    *services.RevisionService
	logger logging.Logger
}

func NewHandler(svc *services.RevisionService, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With("module", "httpapi")}
}

type createDeckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

type updateDeckRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	IsPublic    *bool               `json:"isPublic"`
	Cards       *[]models.CardEntry `json:"cards"`
}

type createVersionRequest struct {
	VersionName string `json:"versionName"`
	ChangeNote  string `json:"changeNote"`
}

type deckResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	IsPublic       bool              `json:"isPublic"`
	OwnerID        string            `json:"ownerId"`
	CurrentVersion int64             `json:"currentVersion"`
	VersionName    string            `json:"versionName,omitempty"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	Cards          []models.DeckCard `json:"cards"`
}

func newDeckResponse(deck *models.Deck, cards []models.DeckCard) deckResponse {
	if cards == nil {
		cards = []models.DeckCard{}
	}
	return deckResponse{
		ID:             deck.ID,
		Name:           deck.Name,
		Description:    deck.Description,
		IsPublic:       deck.IsPublic,
		OwnerID:        deck.OwnerID,
		CurrentVersion: deck.CurrentVersion,
		VersionName:    deck.VersionName,
		UpdatedAt:      deck.UpdatedAt,
		Cards:          cards,
	}
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	deck, err := h.svc.CreateDeck(r.Context(), actorFromContext(r.Context()), req.Name, req.Description, req.IsPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, newDeckResponse(deck, nil))
}

func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, cards, err := h.svc.GetDeck(r.Context(), chi.URLParam(r, "deckID"), actorFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDeckResponse(deck, cards))
}

func (h *Handler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var req updateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	update := models.DeckUpdate{Name: req.Name, Description: req.Description, IsPublic: req.IsPublic}
	var newCards []models.CardEntry
	if req.Cards != nil {
		newCards = *req.Cards
	}

	var deck *models.Deck
	var cards []models.DeckCard
	err := withConflictRetry(r.Context(), func(ctx context.Context) error {
		var err error
		deck, cards, err = h.svc.UpdateWithCards(ctx, chi.URLParam(r, "deckID"), actorFromContext(ctx), update, newCards)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newDeckResponse(deck, cards))
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDeck(r.Context(), chi.URLParam(r, "deckID"), actorFromContext(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListVersions(r.Context(), chi.URLParam(r, "deckID"), actorFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []models.VersionSummary{}
	}
	h.writeJSON(w, r, http.StatusOK, summaries)
}

func (h *Handler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var version *models.DeckVersion
	err := withConflictRetry(r.Context(), func(ctx context.Context) error {
		var err error
		version, err = h.svc.CreateNamedVersion(ctx, chi.URLParam(r, "deckID"), actorFromContext(ctx), req.VersionName, req.ChangeNote)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, version)
}

func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetVersion(r.Context(),
		chi.URLParam(r, "deckID"), actorFromContext(r.Context()), chi.URLParam(r, "versionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, detail)
}

func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	var result *models.RestoreResult
	err := withConflictRetry(r.Context(), func(ctx context.Context) error {
		var err error
		result, err = h.svc.RestoreToVersion(ctx,
			chi.URLParam(r, "deckID"), actorFromContext(ctx), chi.URLParam(r, "versionID"))
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteVersion(r.Context(),
		chi.URLParam(r, "deckID"), actorFromContext(r.Context()), chi.URLParam(r, "versionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withConflictRetry reruns fn when it fails with ErrVersionConflict.
func withConflictRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(conflictRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, common.ErrVersionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(r.Context(), "error encoding response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrInvalidName),
		errors.Is(err, common.ErrEmptyDeck),
		errors.Is(err, common.ErrUnknownCard):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrLastVersionUndeletable),
		errors.Is(err, common.ErrVersionConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "internal error", "error", err)
		http.Error(w, "internal server error", status)
		return
	}

	http.Error(w, err.Error(), status)
}
