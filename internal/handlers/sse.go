package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// dashboardSignals mirrors the client-side signal store of the dashboard page.
type dashboardSignals struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Statuses    []string `json:"statuses"`
	Categories  []string `json:"categories"`
	Regions     []string `json:"regions"`
	Granularity string   `json:"granularity"`
	TopN        int      `json:"topN"`
}

func (s dashboardSignals) filter() services.FilterState {
	return services.FilterInput{
		Start:      s.Start,
		End:        s.End,
		Statuses:   s.Statuses,
		Categories: s.Categories,
		Regions:    s.Regions,
	}.State()
}

func (s dashboardSignals) options() services.DashboardOptions {
	return services.DashboardOptions{
		Granularity: models.Granularity(s.Granularity),
		TopN:        s.TopN,
	}
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleRefreshAll recomputes the dashboard for the filter signals sent by the
// page and patches every fragment and chart signal.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("invalid dashboard signals").WithDetail("cause", err.Error()),
			observability.GetRequestID(r.Context()))
		return
	}

	h.stream(w, r, signals, false)
}

// HandleReset clears every filter signal and re-renders the unfiltered dashboard.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	// Only the presentation signals survive a reset, so unreadable ones fall
	// back to the defaults.
	if err := datastar.ReadSignals(r, &signals); err != nil {
		observability.LoggerFrom(r.Context(), h.logger).Debug("reset with unreadable signals", "error", err)
		signals = dashboardSignals{}
	}
	h.stream(w, r, dashboardSignals{Granularity: signals.Granularity, TopN: signals.TopN}, true)
}

func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, signals dashboardSignals, reset bool) {
	logger := observability.LoggerFrom(r.Context(), h.logger)

	d, err := h.analytics.Dashboard(r.Context(), signals.filter(), signals.options())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}
	parts, err := renderDashboard(d)
	if err != nil {
		logger.Error("render dashboard fragments", "error", err)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "render dashboard"), observability.GetRequestID(r.Context()))
		return
	}

	payload := map[string]any{
		"records":     d.Records,
		"timeline":    d.Timeline,
		"heatmap":     d.Heatmap,
		"statusChart": d.Statuses,
		"trendLabel":  d.Trend.Label,
	}
	if reset {
		payload["start"] = ""
		payload["end"] = ""
		payload["statuses"] = []string{}
		payload["categories"] = []string{}
		payload["regions"] = []string{}
	}
	chartSignals, err := json.Marshal(payload)
	if err != nil {
		logger.Error("marshal dashboard signals", "error", err)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, html := range parts {
		if err := sse.PatchElements(html); err != nil {
			logger.Warn("patch elements", "error", err)
			return
		}
	}
	if err := sse.PatchSignals(chartSignals); err != nil {
		logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
