package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const cacheControl = "private, max-age=60"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) ok(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	h.ok(w, h.analytics.Options())
}

func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	view := h.analytics.View(filterFromQuery(r))
	h.ok(w, services.ComputeMetrics(view))
}

// HandleAggregates serves /api/aggregates/{dimension}.
func (h *APIHandlers) HandleAggregates(w http.ResponseWriter, r *http.Request) {
	dim := models.Dimension(r.PathValue("dimension"))
	table, err := services.AggregateBy(h.analytics.View(filterFromQuery(r)), dim)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, table)
}

func (h *APIHandlers) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	table, err := services.AggregateByTime(h.analytics.View(filterFromQuery(r)), granularityParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, table)
}

func (h *APIHandlers) HandleTopSellers(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", services.DefaultTopN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	table, err := services.TopN(h.analytics.View(filterFromQuery(r)), models.DimensionSeller, n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, table)
}

func (h *APIHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	h.ok(w, services.ComputeTrend(h.analytics.View(filterFromQuery(r))))
}

func (h *APIHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.ok(w, services.StatusBreakdown(h.analytics.View(filterFromQuery(r))))
}

func (h *APIHandlers) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	h.ok(w, services.Describe(h.analytics.View(filterFromQuery(r))))
}

func (h *APIHandlers) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	h.ok(w, services.Heatmap(h.analytics.View(filterFromQuery(r))))
}

// HandleTransactions returns the first rows of the filtered view.
func (h *APIHandlers) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultRowLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if limit < minRowLimit || limit > maxRowLimit {
		h.fail(w, r, errors.Validation(fmt.Sprintf("limit must be between %d and %d", minRowLimit, maxRowLimit)).
			WithDetail("limit", limit))
		return
	}

	view := h.analytics.View(filterFromQuery(r))
	total := len(view)
	if len(view) > limit {
		view = view[:limit]
	}
	h.ok(w, map[string]any{
		"total": total,
		"rows":  view,
	})
}

// HandleDashboard returns every derived table in one response.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", services.DefaultTopN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.analytics.Dashboard(r.Context(), filterFromQuery(r), services.DashboardOptions{
		Granularity: granularityParam(r),
		TopN:        n,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, d)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Ready() {
		h.fail(w, r, errors.ServiceUnavailable("dataset not loaded"))
		return
	}

	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
