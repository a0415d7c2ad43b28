package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/seasonality/internal/api/handlers"
	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/export"
	"github.com/wonny/seasonality/internal/external/offline"
	"github.com/wonny/seasonality/internal/pipeline"
	"github.com/wonny/seasonality/internal/store"
	"github.com/wonny/seasonality/pkg/logger"
	"github.com/wonny/seasonality/pkg/metrics"
)

// memoryStore keeps runs in a map
type memoryStore struct {
	mu   sync.Mutex
	runs map[string]*contracts.FeatureTable
}

func newMemoryStore() *memoryStore {
	return &memoryStore{runs: make(map[string]*contracts.FeatureTable)}
}

func (s *memoryStore) Save(ctx context.Context, ft *contracts.FeatureTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[ft.Meta.RunID] = ft
	return nil
}

func (s *memoryStore) Get(ctx context.Context, runID string) (*contracts.FeatureTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ft, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, runID)
	}
	return ft, nil
}

func (s *memoryStore) List(ctx context.Context, limit int) ([]contracts.FeatureMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var metas []contracts.FeatureMeta
	for _, ft := range s.runs {
		metas = append(metas, ft.Meta)
	}
	return metas, nil
}

func (s *memoryStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, runID)
	}
	delete(s.runs, runID)
	return nil
}

// downDirectory fails every call like an unreachable holiday API
type downDirectory struct{}

func (downDirectory) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	return nil, fmt.Errorf("%w: connection refused", contracts.ErrNetwork)
}

func (downDirectory) ListHolidays(ctx context.Context, year int, code string) ([]contracts.HolidayRecord, error) {
	return nil, fmt.Errorf("%w: connection refused", contracts.ErrNetwork)
}

type testServer struct {
	handler http.Handler
	store   *memoryStore
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, dir contracts.HolidayDirectory, withStore bool) *testServer {
	t.Helper()
	log := logger.Nop()
	m := metrics.New()

	builder, err := pipeline.NewBuilder(dir, m, log)
	require.NoError(t, err)

	ts := &testServer{metrics: m}
	var runs *handlers.RunsHandler
	var runStore handlers.RunStore
	if withStore {
		ts.store = newMemoryStore()
		runStore = ts.store
		runs = handlers.NewRunsHandler(ts.store, log)
	}

	ts.handler = NewRouter(handlers.NewSeasonalityHandler(builder, runStore, log), runs, m, log)
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func seasonalityQuery(params map[string]string) string {
	q := url.Values{}
	q.Set("country", "US")
	q.Set("start", "01/01/2024")
	q.Set("end", "28/01/2024")
	q.Set("day", "MON")
	for k, v := range params {
		if v == "" {
			q.Del(k)
			continue
		}
		q.Set(k, v)
	}
	return "/api/seasonality?" + q.Encode()
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	rec := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSeasonality_CSV(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	rec := ts.do(t, http.MethodGet, seasonalityQuery(nil), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Seasonality.csv")
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	table, err := export.ReadCSV(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())
	assert.Equal(t, "01/01/2024", contracts.FormatDate(table.Date(0)))

	// first holiday column is New Year, observed on Monday 01/01/2024
	first := table.Columns()[0]
	assert.True(t, strings.HasPrefix(first, "New Year"), first)
	assert.True(t, strings.HasSuffix(first, " BH"), first)
	newYear, _ := table.Column(first)
	assert.Equal(t, []int{1, 0, 0, 0}, newYear)

	january, ok := table.Column("Dummy January")
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 1, 1}, january)
}

func TestSeasonality_XLSX(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	rec := ts.do(t, http.MethodGet, seasonalityQuery(map[string]string{"format": "xlsx"}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Seasonality.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestSeasonality_PostJSON(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	body := `{"country":"us","start":"01/01/2024","end":"28/01/2024","week_start":"MON","format":"json"}`
	rec := ts.do(t, http.MethodPost, "/api/seasonality", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.TableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, "US", resp.Meta.Country.Code)
	require.Len(t, resp.Rows, 4)
	assert.Equal(t, "01/01/2024", resp.Rows[0].Date)
	assert.Len(t, resp.Rows[0].Values, len(resp.Columns))
	assert.True(t, strings.HasSuffix(resp.Columns[0], " BH"), resp.Columns[0])
}

func TestSeasonality_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"missing country", http.MethodGet, seasonalityQuery(map[string]string{"country": ""}), "", http.StatusBadRequest},
		{"start after end", http.MethodGet, seasonalityQuery(map[string]string{"start": "01/02/2024"}), "", http.StatusBadRequest},
		{"bad day", http.MethodGet, seasonalityQuery(map[string]string{"day": "MONDAY"}), "", http.StatusBadRequest},
		{"bad date", http.MethodGet, seasonalityQuery(map[string]string{"end": "2024-01-28"}), "", http.StatusBadRequest},
		{"bad format", http.MethodGet, seasonalityQuery(map[string]string{"format": "pdf"}), "", http.StatusBadRequest},
		{"bad week_ending", http.MethodGet, seasonalityQuery(map[string]string{"week_ending": "maybe"}), "", http.StatusBadRequest},
		{"store not configured", http.MethodGet, seasonalityQuery(map[string]string{"store": "true"}), "", http.StatusBadRequest},
		{"country not offered", http.MethodGet, seasonalityQuery(map[string]string{"country": "GB"}), "", http.StatusNotFound},
		{"invalid body", http.MethodPost, "/api/seasonality", "{", http.StatusBadRequest},
		{"runs not configured", http.MethodGet, "/api/runs", "", http.StatusNotFound},
	}

	ts := newTestServer(t, offline.New(), false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestSeasonality_DirectoryDown(t *testing.T) {
	ts := newTestServer(t, downDirectory{}, false)

	rec := ts.do(t, http.MethodGet, seasonalityQuery(nil), "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/countries", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAnchor(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	rec := ts.do(t, http.MethodGet, "/api/anchor?day=mon&date=03/01/2024", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.AnchorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handlers.AnchorResponse{Day: "MON", Date: "03/01/2024", Anchor: "01/01/2024"}, resp)

	rec = ts.do(t, http.MethodGet, "/api/anchor?day=XYZ&date=03/01/2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountries(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	rec := ts.do(t, http.MethodGet, "/api/countries", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Countries []contracts.Country `json:"countries"`
		Count     int                 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "US", resp.Countries[0].Code)
}

func TestRuns(t *testing.T) {
	ts := newTestServer(t, offline.New(), true)

	rec := ts.do(t, http.MethodGet, seasonalityQuery(map[string]string{"store": "true"}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	runID := rec.Header().Get("X-Run-ID")
	require.NotEmpty(t, runID)

	rec = ts.do(t, http.MethodGet, "/api/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), runID)

	rec = ts.do(t, http.MethodGet, "/api/runs/"+runID+"?format=json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.TableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, runID, resp.Meta.RunID)
	assert.Len(t, resp.Rows, 4)

	rec = ts.do(t, http.MethodGet, "/api/runs?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/runs/"+runID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/runs/"+runID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newTestServer(t, offline.New(), false)

	ts.do(t, http.MethodGet, "/api/anchor?day=MON&date=03/01/2024", "")
	ts.do(t, http.MethodGet, "/api/anchor?day=MON&date=bad", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/api/anchor", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/api/anchor", "400")))

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seasonality_api_requests_total")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
