package handler

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/playmoney/internal/api/apierr"
	"github.com/mcoot/playmoney/internal/api/middleware"
	"github.com/mcoot/playmoney/internal/api/response"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/storage"
)

// DefaultArchiveLimit is how many summaries are listed when no limit is given
const DefaultArchiveLimit = 50

// ArchiveHandler serves summaries of ended games
type ArchiveHandler struct {
	store      storage.Storage
	adminToken string
}

// NewArchiveHandler creates a new archive handler. Summaries can only be
// deleted with adminToken; an empty one disables deletion.
func NewArchiveHandler(store storage.Storage, adminToken string) *ArchiveHandler {
	return &ArchiveHandler{store: store, adminToken: adminToken}
}

// List handles GET /api/archive[?limit=N][&gameId=ID]
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		summaries []*model.GameSummary
		err       error
	)
	if gameID := query.Get("gameId"); gameID != "" {
		summaries, err = h.store.ListSummariesForGame(r.Context(), model.GameID(gameID))
	} else {
		limit := DefaultArchiveLimit
		if raw := query.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
				return
			}
		}
		summaries, err = h.store.ListSummaries(r.Context(), limit)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SummaryListFromModel(summaries))
}

// Get handles GET /api/archive/{id}
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SummaryID(mux.Vars(r)["id"])

	summary, err := h.store.GetSummary(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /api/archive/{id}
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.adminToken == "" {
		WriteError(w, apierr.NewArchiveReadOnlyError())
		return
	}
	given := middleware.ExtractCredential(r)
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.adminToken)) != 1 {
		WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	id := model.SummaryID(mux.Vars(r)["id"])

	// Deleting is idempotent in storage; look first so a wrong ID is a 404
	if _, err := h.store.GetSummary(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.store.DeleteSummary(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
