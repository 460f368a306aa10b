package handlers

import (
	"html/template"
	"strconv"
	"strings"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const maxTableRows = 50

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"money": formatMoney,
	"pct":   formatPercent,
}).Parse(`
{{define "metrics"}}<div id="metrics" class="metric-grid">
<div class="metric"><span>Revenue</span><strong>{{money .TotalRevenue}}</strong></div>
<div class="metric"><span>Completed sales</span><strong>{{.CompletedSales}}</strong></div>
<div class="metric"><span>Mean ticket</span><strong>{{money .MeanTicket}}</strong></div>
<div class="metric"><span>Median ticket</span><strong>{{money .MedianTicket}}</strong></div>
<div class="metric"><span>Units</span><strong>{{.TotalUnits}}</strong></div>
<div class="metric"><span>Mean discount</span><strong>{{pct .MeanDiscountPct}}</strong></div>
<div class="metric"><span>Pending</span><strong>{{.PendingSales}}</strong></div>
<div class="metric"><span>Cancelled</span><strong>{{.CancelledSales}}</strong></div>
</div>{{end}}

{{define "trend"}}<div id="trend" class="trend trend-{{.Status}}">
<strong>{{.Label}}</strong>{{if eq .Status "ok"}} <span>{{pct .GrowthPercent}} ({{.PreviousMonth}} → {{.LastMonth}})</span>{{end}}
</div>{{end}}

{{define "aggregate"}}<div id="{{.ID}}">
<table class="modern-table">
<thead><tr><th>{{.Title}}</th><th>Revenue</th><th>Mean ticket</th><th>Sales</th><th>Units</th>{{if .Extra}}<th>{{.Extra}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Key}}</td>
<td><strong>{{money .Revenue}}</strong></td>
<td>{{money .MeanTicket}}</td>
<td>{{.Sales}}</td>
<td>{{.Units}}</td>
{{if eq $.Extra "Mean discount"}}<td>{{pct .MeanDiscountPct}}</td>{{else if eq $.Extra "Cities"}}<td>{{.Cities}}</td>{{else if eq $.Extra "Share"}}<td>{{pct .SharePercent}}</td>{{end}}
</tr>{{else}}<tr><td colspan="6">No completed sales</td></tr>{{end}}
</tbody>
</table>
</div>{{end}}

{{define "statuses"}}<div id="status-table">
<table class="modern-table">
<thead><tr><th>Status</th><th>Records</th><th>Net total</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Status}}</td><td>{{.Sales}}</td><td>{{money .NetTotal}}</td></tr>{{end}}
</tbody>
</table>
</div>{{end}}
`))

type aggregateFragment struct {
	ID    string
	Title string
	Extra string
	Rows  []models.AggregateRow
}

func formatMoney(v float64) string {
	return "R$ " + formatFixed(v)
}

func formatPercent(v float64) string {
	return formatFixed(v) + "%"
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderDashboard renders every HTML fragment of d, in patch order.
func renderDashboard(d *services.Dashboard) ([]string, error) {
	tables := []aggregateFragment{
		{ID: "category-table", Title: "Category", Extra: "Mean discount", Rows: d.Categories.Rows},
		{ID: "region-table", Title: "Region", Extra: "Cities", Rows: d.Regions.Rows},
		{ID: "payment-table", Title: "Payment method", Extra: "Share", Rows: d.Payments.Rows},
		{ID: "seller-table", Title: "Seller", Rows: d.TopSellers.Rows},
	}

	out := make([]string, 0, len(tables)+3)
	for _, step := range []struct {
		name string
		data any
	}{
		{"metrics", d.Metrics},
		{"trend", d.Trend},
		{"statuses", d.Statuses},
	} {
		html, err := render(step.name, step.data)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}

	for _, t := range tables {
		if len(t.Rows) > maxTableRows {
			t.Rows = t.Rows[:maxTableRows]
		}
		html, err := render("aggregate", t)
		if err != nil {
			return nil, err
		}
		out = append(out, html)
	}
	return out, nil
}

func render(name string, data any) (string, error) {
	var buf strings.Builder
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
