package models

import "time"

type MetricSnapshot struct {
	CompletedSales  int     `json:"completed_sales"`
	TotalRevenue    float64 `json:"total_revenue"`
	MeanTicket      float64 `json:"mean_ticket"`
	MedianTicket    float64 `json:"median_ticket"`
	TotalUnits      int     `json:"total_units"`
	CancelledSales  int     `json:"cancelled_sales"`
	PendingSales    int     `json:"pending_sales"`
	MaxNetTotal     float64 `json:"max_net_total"`
	MinNetTotal     float64 `json:"min_net_total"`
	MeanDiscountPct float64 `json:"mean_discount_percent"`
}

type Dimension string

const (
	DimensionCategory      Dimension = "category"
	DimensionRegion        Dimension = "region"
	DimensionPaymentMethod Dimension = "payment_method"
	DimensionSeller        Dimension = "seller"
	DimensionTime          Dimension = "time"
)

type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
)

// AggregateRow holds the statistics of one group. MeanDiscountPct, Cities and
// SharePercent are only filled for the dimension that defines them.
type AggregateRow struct {
	Key             string     `json:"key"`
	PeriodStart     *time.Time `json:"period_start,omitempty"`
	Revenue         float64    `json:"total_revenue"`
	MeanTicket      float64    `json:"mean_ticket"`
	Sales           int        `json:"sales"`
	Units           int        `json:"units"`
	MeanDiscountPct float64    `json:"mean_discount_percent,omitempty"`
	Cities          int        `json:"cities,omitempty"`
	SharePercent    float64    `json:"share_percent,omitempty"`
}

type AggregateTable struct {
	Dimension   Dimension      `json:"dimension"`
	Granularity Granularity    `json:"granularity,omitempty"`
	Rows        []AggregateRow `json:"rows"`
}

type TrendLabel string

const (
	TrendStrongGrowth   TrendLabel = "Strong growth"
	TrendModerateGrowth TrendLabel = "Moderate growth"
	TrendStable         TrendLabel = "Stable"
	TrendDecline        TrendLabel = "Decline"
	TrendInsufficient   TrendLabel = "Insufficient data"
	TrendUndefined      TrendLabel = "Undefined"
)

type TrendStatus string

const (
	TrendStatusOK           TrendStatus = "ok"
	TrendStatusInsufficient TrendStatus = "insufficient_data"
	TrendStatusUndefined    TrendStatus = "undefined"
)

type TrendSnapshot struct {
	Status        TrendStatus `json:"status"`
	Label         TrendLabel  `json:"label"`
	GrowthPercent float64     `json:"growth_percent"`
	Months        int         `json:"months"`
	LastMonth     string      `json:"last_month,omitempty"`
	LastTotal     float64     `json:"last_total"`
	PreviousMonth string      `json:"previous_month,omitempty"`
	PreviousTotal float64     `json:"previous_total"`
}

type StatusCount struct {
	Status   Status  `json:"status"`
	Sales    int     `json:"sales"`
	NetTotal float64 `json:"net_total"`
}

type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

type FilterOptions struct {
	Statuses   []Status  `json:"statuses"`
	Categories []string  `json:"categories"`
	Regions    []string  `json:"regions"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
}

// Heatmap is completed revenue pivoted by category (rows) and region (columns).
type Heatmap struct {
	Categories []string    `json:"categories"`
	Regions    []string    `json:"regions"`
	Values     [][]float64 `json:"values"`
}
