package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	DefaultTopN        = 10
	DefaultGranularity = models.GranularityMonth
)

// Source yields the collection at startup, generating it if needed.
type Source interface {
	LoadOrGenerate(ctx context.Context, opts dataset.GenerateOptions) ([]models.Transaction, bool, error)
}

// DashboardOptions tune the parts of a Dashboard that are not filters.
type DashboardOptions struct {
	Granularity models.Granularity `json:"granularity"`
	TopN        int                `json:"top_n"`
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	if !validGranularity(o.Granularity) {
		o.Granularity = DefaultGranularity
	}
	if o.TopN < 1 {
		o.TopN = DefaultTopN
	}
	return o
}

// Dashboard is every derived table for one filter state.
type Dashboard struct {
	Filter      FilterState           `json:"filter"`
	Options     DashboardOptions      `json:"options"`
	Records     int                   `json:"records"`
	Metrics     models.MetricSnapshot `json:"metrics"`
	Categories  models.AggregateTable `json:"categories"`
	Regions     models.AggregateTable `json:"regions"`
	Payments    models.AggregateTable `json:"payments"`
	Timeline    models.AggregateTable `json:"timeline"`
	TopSellers  models.AggregateTable `json:"top_sellers"`
	Trend       models.TrendSnapshot  `json:"trend"`
	Statuses    []models.StatusCount  `json:"statuses"`
	Heatmap     models.Heatmap        `json:"heatmap"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Analytics owns the pristine collection. It is written once at startup and
// only read afterwards; every query derives a fresh view from it.
type Analytics struct {
	mu        sync.RWMutex
	records   []models.Transaction
	options   models.FilterOptions
	cleaned   CleanReport
	loadedAt  time.Time
	generated bool

	queries atomic.Int64
	logger  *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{logger: logger}
}

// SetData cleans records and installs them as the pristine collection.
func (a *Analytics) SetData(records []models.Transaction) {
	cleaned, report := Clean(records)
	options := Options(cleaned)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = cleaned
	a.options = options
	a.cleaned = report
	a.loadedAt = time.Now()

	if report.Duplicates > 0 || report.Incomplete > 0 {
		a.logger.Info("dataset cleaned",
			"duplicates", report.Duplicates,
			"incomplete", report.Incomplete,
			"records", len(cleaned))
	}
}

// Bootstrap loads the collection from src, generating it first when absent.
// Any failure leaves the service without data and must stop startup.
func (a *Analytics) Bootstrap(ctx context.Context, src Source, opts dataset.GenerateOptions) error {
	start := time.Now()
	records, generated, err := src.LoadOrGenerate(ctx, opts)
	if err != nil {
		return err
	}

	a.SetData(records)
	a.mu.Lock()
	a.generated = generated
	a.mu.Unlock()

	a.logger.Info("dataset ready",
		"records", len(records),
		"generated", generated,
		"duration", time.Since(start))
	return nil
}

func (a *Analytics) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records != nil
}

// Records returns the pristine collection. Callers must not modify it.
func (a *Analytics) Records() []models.Transaction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records
}

func (a *Analytics) Options() models.FilterOptions {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.options
}

// NewSession starts an isolated filter chain over the pristine collection.
func (a *Analytics) NewSession() *Session {
	return NewSession(a.Records())
}

// View applies state to the pristine collection.
func (a *Analytics) View(state FilterState) []models.Transaction {
	a.queries.Add(1)
	view := Apply(a.Records(), state)
	a.logger.Debug("filters applied", "records", len(view), "filter_empty", state.IsEmpty())
	return view
}

// Dashboard recomputes every table for state from scratch.
func (a *Analytics) Dashboard(ctx context.Context, state FilterState, opts DashboardOptions) (*Dashboard, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.dashboard")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	opts = opts.withDefaults()
	view := a.View(state)
	span.SetAttributes(
		attribute.Int("analytics.view_records", len(view)),
		attribute.String("analytics.granularity", string(opts.Granularity)),
	)

	d := &Dashboard{
		Filter:      state,
		Options:     opts,
		Records:     len(view),
		Metrics:     ComputeMetrics(view),
		Trend:       ComputeTrend(view),
		Statuses:    StatusBreakdown(view),
		Heatmap:     Heatmap(view),
		GeneratedAt: time.Now().UTC(),
	}
	if d.Categories, err = AggregateBy(view, models.DimensionCategory); err != nil {
		return nil, err
	}
	if d.Regions, err = AggregateBy(view, models.DimensionRegion); err != nil {
		return nil, err
	}
	if d.Payments, err = AggregateBy(view, models.DimensionPaymentMethod); err != nil {
		return nil, err
	}
	if d.Timeline, err = AggregateByTime(view, opts.Granularity); err != nil {
		return nil, err
	}
	if d.TopSellers, err = TopN(view, models.DimensionSeller, opts.TopN); err != nil {
		return nil, err
	}

	observability.LoggerFrom(ctx, a.logger).Debug("dashboard computed",
		"records", d.Records,
		"completed", d.Metrics.CompletedSales)
	return d, nil
}

// Stats reports dataset and usage counters for monitoring.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":       len(a.records),
		"loaded_at":          a.loadedAt,
		"generated":          a.generated,
		"duplicates_dropped": a.cleaned.Duplicates,
		"incomplete_dropped": a.cleaned.Incomplete,
		"categories":         len(a.options.Categories),
		"regions":            len(a.options.Regions),
		"min_date":           a.options.MinDate,
		"max_date":           a.options.MaxDate,
		"queries":            a.queries.Load(),
	}
}
