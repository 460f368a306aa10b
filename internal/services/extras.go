package services

import (
	"cmp"
	"math"
	"slices"

	"sales-dashboard/internal/models"
)

// CleanReport counts what Clean removed.
type CleanReport struct {
	Duplicates int `json:"duplicates"`
	Incomplete int `json:"incomplete"`
}

// Clean drops exact duplicate records and records missing a date or status.
// The first occurrence of a duplicate is kept; order is otherwise preserved.
func Clean(records []models.Transaction) ([]models.Transaction, CleanReport) {
	var report CleanReport
	seen := make(map[models.Transaction]struct{}, len(records))
	out := make([]models.Transaction, 0, len(records))
	for _, tx := range records {
		if tx.Date.IsZero() || tx.Status == "" {
			report.Incomplete++
			continue
		}
		if _, dup := seen[tx]; dup {
			report.Duplicates++
			continue
		}
		seen[tx] = struct{}{}
		out = append(out, tx)
	}
	return out, report
}

// Options lists the values a dashboard can filter on. Statuses follow their
// canonical order; categories and regions are sorted by name.
func Options(records []models.Transaction) models.FilterOptions {
	opts := models.FilterOptions{
		Statuses:   []models.Status{},
		Categories: []string{},
		Regions:    []string{},
	}
	statuses := make(map[models.Status]bool)
	categories := make(map[string]bool)
	regions := make(map[string]bool)

	for _, tx := range records {
		statuses[tx.Status] = true
		if !categories[tx.Category] {
			categories[tx.Category] = true
			opts.Categories = append(opts.Categories, tx.Category)
		}
		if !regions[tx.Region] {
			regions[tx.Region] = true
			opts.Regions = append(opts.Regions, tx.Region)
		}
		if opts.MinDate.IsZero() || tx.Date.Before(opts.MinDate) {
			opts.MinDate = tx.Date
		}
		if tx.Date.After(opts.MaxDate) {
			opts.MaxDate = tx.Date
		}
	}

	for _, s := range models.Statuses {
		if statuses[s] {
			opts.Statuses = append(opts.Statuses, s)
		}
	}
	slices.Sort(opts.Categories)
	slices.Sort(opts.Regions)
	return opts
}

// StatusBreakdown counts every record of view by status, most frequent first.
func StatusBreakdown(view []models.Transaction) []models.StatusCount {
	totals := make(map[models.Status]*models.Money)
	counts := make(map[models.Status]int)
	var order []models.Status
	for _, tx := range view {
		if _, ok := totals[tx.Status]; !ok {
			totals[tx.Status] = &models.Money{}
			order = append(order, tx.Status)
		}
		totals[tx.Status].Add(tx.NetTotal)
		counts[tx.Status]++
	}

	out := make([]models.StatusCount, 0, len(order))
	for _, s := range order {
		out = append(out, models.StatusCount{Status: s, Sales: counts[s], NetTotal: totals[s].Float64()})
	}
	slices.SortStableFunc(out, func(a, b models.StatusCount) int {
		return cmp.Compare(b.Sales, a.Sales)
	})
	return out
}

// Heatmap pivots completed revenue by category and region. Missing cells are 0.
func Heatmap(view []models.Transaction) models.Heatmap {
	cells := make(map[[2]string]*models.Money)
	var categories, regions []string
	for _, tx := range view {
		if !tx.IsCompleted() {
			continue
		}
		if !slices.Contains(categories, tx.Category) {
			categories = append(categories, tx.Category)
		}
		if !slices.Contains(regions, tx.Region) {
			regions = append(regions, tx.Region)
		}
		key := [2]string{tx.Category, tx.Region}
		if cells[key] == nil {
			cells[key] = &models.Money{}
		}
		cells[key].Add(tx.NetTotal)
	}
	slices.Sort(categories)
	slices.Sort(regions)

	hm := models.Heatmap{
		Categories: append([]string{}, categories...),
		Regions:    append([]string{}, regions...),
		Values:     make([][]float64, len(categories)),
	}
	for i, c := range categories {
		hm.Values[i] = make([]float64, len(regions))
		for j, r := range regions {
			if m := cells[[2]string{c, r}]; m != nil {
				hm.Values[i][j] = m.Float64()
			}
		}
	}
	return hm
}

var describedColumns = []struct {
	name  string
	value func(models.Transaction) float64
}{
	{"UnitPrice", func(tx models.Transaction) float64 { return tx.UnitPrice }},
	{"Quantity", func(tx models.Transaction) float64 { return float64(tx.Quantity) }},
	{"GrossTotal", func(tx models.Transaction) float64 { return tx.GrossTotal }},
	{"DiscountPercent", func(tx models.Transaction) float64 { return float64(tx.DiscountPercent) }},
	{"NetTotal", func(tx models.Transaction) float64 { return tx.NetTotal }},
}

// Describe computes summary statistics for the numeric columns of view.
// Std is the sample deviation; quartiles interpolate linearly.
func Describe(view []models.Transaction) []models.ColumnStats {
	out := make([]models.ColumnStats, 0, len(describedColumns))
	values := make([]float64, len(view))
	for _, col := range describedColumns {
		for i, tx := range view {
			values[i] = col.value(tx)
		}
		out = append(out, describe(col.name, values))
	}
	return out
}

func describe(name string, values []float64) models.ColumnStats {
	stats := models.ColumnStats{Column: name, Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var std float64
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(len(sorted)-1))
	}

	stats.Mean = models.Round2(mean)
	stats.Std = models.Round2(std)
	stats.Min = sorted[0]
	stats.Q1 = models.Round2(quantile(sorted, 0.25))
	stats.Median = models.Round2(quantile(sorted, 0.5))
	stats.Q3 = models.Round2(quantile(sorted, 0.75))
	stats.Max = sorted[len(sorted)-1]
	return stats
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
