package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/seasonality/pkg/logger"
)

// RunsHandler serves stored feature tables
type RunsHandler struct {
	store  RunStore
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(store RunStore, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		store:  store,
		logger: log,
	}
}

// List returns the most recent runs
// GET /api/runs?limit=20
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// Get returns one stored table in the requested format
// GET /api/runs/{id}?format=csv
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	ft, err := h.store.Get(r.Context(), runID)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", runID).Warn("Failed to load run")
		respondFailure(w, err)
		return
	}

	writeTable(w, h.logger, r.URL.Query().Get("format"), ft)
}

// Delete removes one stored table
// DELETE /api/runs/{id}
func (h *RunsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), runID); err != nil {
		h.logger.WithError(err).WithField("run_id", runID).Warn("Failed to delete run")
		respondFailure(w, err)
		return
	}

	h.logger.WithField("run_id", runID).Info("Run deleted")
	w.WriteHeader(http.StatusNoContent)
}
