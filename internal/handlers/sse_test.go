package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func sseRequest(target, signals string) *http.Request {
	if signals != "" {
		target += "?datastar=" + url.QueryEscape(signals)
	}
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestNewSSEHandlers(t *testing.T) {
	analytics := createTestAnalytics(t)
	logger := quietLogger()

	h := NewSSEHandlers(analytics, logger)
	require.NotNil(t, h)
	assert.Same(t, analytics, h.analytics)
	assert.Same(t, logger, h.logger)
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(t), quietLogger())

	w := httptest.NewRecorder()
	h.HandleRefreshAll(w, sseRequest("/sse/refresh-all", `{"regions":["South"],"granularity":"quarter","topN":3}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))

	body := w.Body.String()
	assert.Equal(t, 7, strings.Count(body, "event: datastar-patch-elements"))
	assert.Contains(t, body, "event: datastar-patch-signals")
	for _, id := range []string{"metrics", "trend", "status-table", "category-table", "region-table", "payment-table", "seller-table"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `"granularity":"quarter"`)
	assert.NotContains(t, body, "<td>Southeast</td>")
}

func TestSSEHandlers_HandleRefreshAll_NoSignals(t *testing.T) {
	analytics := createTestAnalytics(t)
	h := NewSSEHandlers(analytics, quietLogger())

	w := httptest.NewRecorder()
	h.HandleRefreshAll(w, sseRequest("/sse/refresh-all", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"records":365`)
}

func TestSSEHandlers_HandleRefreshAll_InvalidSignals(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(t), quietLogger())

	w := httptest.NewRecorder()
	h.HandleRefreshAll(w, sseRequest("/sse/refresh-all", `{"regions":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}

func TestSSEHandlers_HandleRefreshAll_UnknownGranularity(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(t), quietLogger())

	w := httptest.NewRecorder()
	h.HandleRefreshAll(w, sseRequest("/sse/refresh-all", `{"granularity":"hour"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"granularity":"month"`)
}

func TestSSEHandlers_HandleReset(t *testing.T) {
	h := NewSSEHandlers(createTestAnalytics(t), quietLogger())

	w := httptest.NewRecorder()
	h.HandleReset(w, sseRequest("/sse/reset", `{"regions":["South"],"start":"2024-05-01","topN":5}`))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"regions":[]`)
	assert.Contains(t, body, `"start":""`)
	assert.Contains(t, body, `"records":365`)
	assert.Contains(t, body, "<td>Southeast</td>")
}

func TestSSEHandlers_HandleReset_UnreadableSignals(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewSSEHandlers(createTestAnalytics(t), logger)

	w := httptest.NewRecorder()
	h.HandleReset(w, sseRequest("/sse/reset", `{"topN":`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"records":365`)
	assert.Contains(t, logs.String(), "reset with unreadable signals")
}

func TestDashboardSignals_Filter(t *testing.T) {
	s := dashboardSignals{
		Start:      "2024-01-01",
		End:        "not-a-date",
		Statuses:   []string{"completed", "Unknown"},
		Categories: []string{"Books"},
	}

	state := s.filter()
	assert.False(t, state.Start.IsZero())
	assert.True(t, state.End.IsZero())
	assert.Equal(t, []models.Status{models.StatusCompleted}, state.Statuses)
	assert.Equal(t, []string{"Books"}, state.Categories)
	assert.Empty(t, state.Regions)
}

func TestRenderDashboard_LimitsRows(t *testing.T) {
	rows := make([]models.AggregateRow, maxTableRows+25)
	for i := range rows {
		rows[i] = models.AggregateRow{Key: "seller", Revenue: 10}
	}

	parts, err := renderDashboard(&services.Dashboard{
		TopSellers: models.AggregateTable{Rows: rows},
		Trend:      models.TrendSnapshot{Status: models.TrendStatusInsufficient, Label: "Insufficient data"},
	})
	require.NoError(t, err)
	require.Len(t, parts, 7)

	seller := parts[len(parts)-1]
	assert.Contains(t, seller, `id="seller-table"`)
	assert.Equal(t, maxTableRows, strings.Count(seller, "<td>seller</td>"))
	assert.Contains(t, parts[3], "No completed sales")
	assert.Contains(t, parts[1], "Insufficient data")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "R$ 1234.50", formatMoney(1234.5))
	assert.Equal(t, "-8.33%", formatPercent(-8.333))
}
