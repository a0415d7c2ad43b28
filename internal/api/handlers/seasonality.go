package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/export"
	"github.com/wonny/seasonality/internal/pipeline"
	"github.com/wonny/seasonality/pkg/logger"
)

// FormatJSON renders the table as a JSON document instead of a file
const FormatJSON = "json"

// RunStore persists built feature tables
type RunStore interface {
	Save(ctx context.Context, ft *contracts.FeatureTable) error
	Get(ctx context.Context, runID string) (*contracts.FeatureTable, error)
	List(ctx context.Context, limit int) ([]contracts.FeatureMeta, error)
	Delete(ctx context.Context, runID string) error
}

// SeasonalityHandler builds feature tables on request
// ⭐ SSOT: the HTTP entry point of the build pipeline
type SeasonalityHandler struct {
	builder *pipeline.Builder
	store   RunStore
	logger  *logger.Logger
}

// NewSeasonalityHandler creates a new seasonality handler; store may be nil
func NewSeasonalityHandler(builder *pipeline.Builder, store RunStore, log *logger.Logger) *SeasonalityHandler {
	return &SeasonalityHandler{
		builder: builder,
		store:   store,
		logger:  log,
	}
}

// BuildRequest is the POST body of /api/seasonality
type BuildRequest struct {
	pipeline.Request
	Format string `json:"format,omitempty"`
	Store  bool   `json:"store,omitempty"`
}

// TableResponse is the JSON rendering of a feature table
type TableResponse struct {
	Meta    contracts.FeatureMeta `json:"meta"`
	Columns []string              `json:"columns"`
	Rows    []RowResponse         `json:"rows"`
}

// RowResponse is one bucket of a TableResponse
type RowResponse struct {
	Date   string `json:"date"`
	Values []int  `json:"values"`
}

// Get builds a table from query parameters
// GET /api/seasonality?country=AR&start=01/01/2024&end=31/12/2024&day=MON
func (h *SeasonalityHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := BuildRequest{
		Request: pipeline.Request{
			Country:     q.Get("country"),
			Start:       q.Get("start"),
			End:         q.Get("end"),
			WeekStart:   q.Get("day"),
			Subdivision: q.Get("subdivision"),
			Frequency:   q.Get("frequency"),
			Join:        q.Get("join"),
		},
		Format: q.Get("format"),
	}

	var err error
	if req.WeekEnding, err = queryBool(q.Get("week_ending")); err != nil {
		respondError(w, http.StatusBadRequest, "week_ending: "+err.Error())
		return
	}
	if req.Store, err = queryBool(q.Get("store")); err != nil {
		respondError(w, http.StatusBadRequest, "store: "+err.Error())
		return
	}

	h.build(w, r, req)
}

// Post builds a table from a JSON body
// POST /api/seasonality
func (h *SeasonalityHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.build(w, r, req)
}

func (h *SeasonalityHandler) build(w http.ResponseWriter, r *http.Request, req BuildRequest) {
	ctx := r.Context()

	if req.Format != FormatJSON {
		if _, err := export.ParseFormat(req.Format); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Store && h.store == nil {
		respondError(w, http.StatusBadRequest, "store: persistence is not configured")
		return
	}

	ft, err := h.builder.BuildRequest(ctx, req.Request)
	if err != nil {
		respondFailure(w, err)
		return
	}

	if req.Store {
		if err := h.store.Save(ctx, ft); err != nil {
			h.logger.WithError(err).WithField("run_id", ft.Meta.RunID).Error("Failed to store feature table")
			respondFailure(w, err)
			return
		}
	}

	h.logger.WithFields(map[string]interface{}{
		"run_id": ft.Meta.RunID,
		"format": req.Format,
		"stored": req.Store,
	}).Info("Feature table served")

	writeTable(w, h.logger, req.Format, ft)
}

// Countries lists the directory's countries
// GET /api/countries
func (h *SeasonalityHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.builder.Countries(r.Context())
	if err != nil {
		respondFailure(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"countries": countries,
		"count":     len(countries),
	})
}

// writeTable renders ft as a JSON document or as an export file attachment
func writeTable(w http.ResponseWriter, log *logger.Logger, format string, ft *contracts.FeatureTable) {
	w.Header().Set("X-Run-ID", ft.Meta.RunID)

	if format == FormatJSON {
		respondJSON(w, http.StatusOK, tableResponse(ft))
		return
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName()))
	w.WriteHeader(http.StatusOK)

	// headers are already sent; a failure here can only be logged
	if err := export.Write(w, f, ft); err != nil {
		log.WithError(err).WithField("run_id", ft.Meta.RunID).Error("Failed to write export")
	}
}

func tableResponse(ft *contracts.FeatureTable) TableResponse {
	t := ft.Table
	rows := make([]RowResponse, t.Len())
	for i := range rows {
		rows[i] = RowResponse{
			Date:   contracts.FormatDate(t.Date(i)),
			Values: t.Row(i),
		}
	}
	return TableResponse{
		Meta:    ft.Meta,
		Columns: t.Columns(),
		Rows:    rows,
	}
}

func queryBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", s)
	}
	return v, nil
}
