package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

var fixedNow = time.Date(2024, 10, 15, 13, 45, 30, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestAnalytics(t testing.TB) *services.Analytics {
	t.Helper()
	records, err := generator.Generate(generator.WindowDays, 42, fixedNow)
	require.NoError(t, err)

	a := services.NewAnalytics(quietLogger())
	a.SetData(records)
	return a
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func get[T any](t *testing.T, handler http.HandlerFunc, target string) (*httptest.ResponseRecorder, envelope[T]) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	var body envelope[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body), "body of %s", target)
	return w, body
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewAPIHandlers(analytics, quietLogger())
	require.NotNil(t, h)
	assert.Same(t, analytics, h.analytics)
}

func TestAPIHandlers_HandleMetrics(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewAPIHandlers(analytics, quietLogger())

	w, body := get[models.MetricSnapshot](t, h.HandleMetrics, "/api/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, cacheControl, w.Header().Get("Cache-Control"))
	assert.True(t, body.Success)
	assert.Equal(t, services.ComputeMetrics(analytics.Records()), body.Data)
}

func TestAPIHandlers_HandleMetrics_Filtered(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewAPIHandlers(analytics, quietLogger())

	_, body := get[models.MetricSnapshot](t, h.HandleMetrics, "/api/metrics?status=Cancelled&category=Books,Toys&region=South&region=North")
	assert.Zero(t, body.Data.CompletedSales)
	assert.Zero(t, body.Data.TotalRevenue)
	assert.Zero(t, body.Data.PendingSales)

	want := services.Apply(analytics.Records(), services.FilterState{
		Statuses:   []models.Status{models.StatusCancelled},
		Categories: []string{"Books", "Toys"},
		Regions:    []string{"South", "North"},
	})
	assert.Equal(t, len(want), body.Data.CancelledSales)
}

func TestAPIHandlers_HandleAggregates(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewAPIHandlers(analytics, quietLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/aggregates/{dimension}", h.HandleAggregates)

	tests := []struct {
		dimension string
		status    int
	}{
		{"category", http.StatusOK},
		{"region", http.StatusOK},
		{"payment_method", http.StatusOK},
		{"seller", http.StatusOK},
		{"time", http.StatusBadRequest},
		{"colour", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.dimension, func(t *testing.T) {
			w, body := get[models.AggregateTable](t, mux.ServeHTTP, "/api/aggregates/"+tt.dimension)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				require.NotNil(t, body.Error)
				assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
				return
			}
			assert.Equal(t, models.Dimension(tt.dimension), body.Data.Dimension)
			assert.NotEmpty(t, body.Data.Rows)
		})
	}
}

func TestAPIHandlers_HandleTimeline(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())

	w, body := get[models.AggregateTable](t, h.HandleTimeline, "/api/timeline")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.GranularityMonth, body.Data.Granularity)
	assert.GreaterOrEqual(t, len(body.Data.Rows), 12)

	w, body = get[models.AggregateTable](t, h.HandleTimeline, "/api/timeline?granularity=quarter&start=2024-01-01&end=2024-06-30")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body.Data.Rows, 2)
	assert.Equal(t, "2024-Q1", body.Data.Rows[0].Key)

	w, _ = get[models.AggregateTable](t, h.HandleTimeline, "/api/timeline?granularity=hour")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIHandlers_HandleTopSellers(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())

	_, body := get[models.AggregateTable](t, h.HandleTopSellers, "/api/top-sellers")
	assert.Len(t, body.Data.Rows, services.DefaultTopN)

	_, body = get[models.AggregateTable](t, h.HandleTopSellers, "/api/top-sellers?n=3")
	require.Len(t, body.Data.Rows, 3)
	assert.GreaterOrEqual(t, body.Data.Rows[0].Revenue, body.Data.Rows[1].Revenue)

	w, body := get[models.AggregateTable](t, h.HandleTopSellers, "/api/top-sellers?n=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)

	w, body = get[models.AggregateTable](t, h.HandleTopSellers, "/api/top-sellers?n=many")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
}

func TestAPIHandlers_HandleTrend(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())

	_, body := get[models.TrendSnapshot](t, h.HandleTrend, "/api/trend")
	assert.Equal(t, models.TrendStatusOK, body.Data.Status)
	assert.Greater(t, body.Data.Months, 1)

	_, body = get[models.TrendSnapshot](t, h.HandleTrend, "/api/trend?start=2024-05-01&end=2024-05-31")
	assert.Equal(t, models.TrendStatusInsufficient, body.Data.Status)
}

func TestAPIHandlers_HandleTransactions(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())

	type page struct {
		Total int                  `json:"total"`
		Rows  []models.Transaction `json:"rows"`
	}

	_, body := get[page](t, h.HandleTransactions, "/api/transactions")
	assert.Equal(t, generator.WindowDays, body.Data.Total)
	assert.Len(t, body.Data.Rows, defaultRowLimit)

	_, body = get[page](t, h.HandleTransactions, "/api/transactions?limit=10&region=South")
	assert.LessOrEqual(t, len(body.Data.Rows), 10)
	for _, row := range body.Data.Rows {
		assert.Equal(t, "South", row.Region)
	}

	for _, limit := range []string{"5", "1001"} {
		w, _ := get[page](t, h.HandleTransactions, "/api/transactions?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit %s", limit)
	}
}

func TestAPIHandlers_TablesAndOptions(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewAPIHandlers(analytics, quietLogger())

	_, options := get[models.FilterOptions](t, h.HandleOptions, "/api/options")
	assert.Equal(t, analytics.Options().Categories, options.Data.Categories)

	_, statuses := get[[]models.StatusCount](t, h.HandleStatus, "/api/status")
	total := 0
	for _, s := range statuses.Data {
		total += s.Sales
	}
	assert.Equal(t, generator.WindowDays, total)

	_, describe := get[[]models.ColumnStats](t, h.HandleDescribe, "/api/describe")
	assert.Len(t, describe.Data, 5)

	_, heatmap := get[models.Heatmap](t, h.HandleHeatmap, "/api/heatmap")
	assert.Len(t, heatmap.Data.Values, len(heatmap.Data.Categories))
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())

	w, body := get[services.Dashboard](t, h.HandleDashboard, "/api/dashboard?n=5&granularity=week&status=Completed")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body.Data.TopSellers.Rows, 5)
	assert.Equal(t, models.GranularityWeek, body.Data.Timeline.Granularity)
	assert.Zero(t, body.Data.Metrics.PendingSales)
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())
	w, body := get[map[string]string](t, h.HandleHealth, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body.Data["status"])

	empty := NewAPIHandlers(services.NewAnalytics(quietLogger()), quietLogger())
	w, body = get[map[string]string](t, empty.HandleHealth, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	h := NewAPIHandlers(createTestAnalytics(t), quietLogger())
	_, body := get[map[string]any](t, h.HandleStats, "/admin/stats")
	assert.Equal(t, float64(generator.WindowDays), body.Data["record_count"])
}

func BenchmarkAPIHandlers_HandleMetrics(b *testing.B) {
	h := NewAPIHandlers(createTestAnalytics(b), quietLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/metrics?category=Books", nil)

	for b.Loop() {
		h.HandleMetrics(httptest.NewRecorder(), req)
	}
}
