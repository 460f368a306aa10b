package services

import (
	"fmt"
	"slices"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

type group struct {
	key       string
	revenue   models.Money
	sales     int
	units     int
	discounts int
	cities    map[string]struct{}
}

func (g *group) add(tx models.Transaction) {
	g.revenue.Add(tx.NetTotal)
	g.sales++
	g.units += tx.Quantity
	g.discounts += tx.DiscountPercent
	if g.cities != nil {
		g.cities[tx.City] = struct{}{}
	}
}

func (g *group) row() models.AggregateRow {
	return models.AggregateRow{
		Key:        g.key,
		Revenue:    g.revenue.Float64(),
		MeanTicket: g.revenue.Mean(g.sales),
		Sales:      g.sales,
		Units:      g.units,
	}
}

func dimensionKey(dim models.Dimension) (func(models.Transaction) string, error) {
	switch dim {
	case models.DimensionCategory:
		return func(tx models.Transaction) string { return tx.Category }, nil
	case models.DimensionRegion:
		return func(tx models.Transaction) string { return tx.Region }, nil
	case models.DimensionPaymentMethod:
		return func(tx models.Transaction) string { return string(tx.PaymentMethod) }, nil
	case models.DimensionSeller:
		return func(tx models.Transaction) string { return tx.Seller }, nil
	case models.DimensionTime:
		return nil, errors.Validation("time buckets need a granularity; use the timeline aggregation").
			WithDetail("dimension", dim)
	default:
		return nil, errors.Validation(fmt.Sprintf("unknown dimension %q", dim)).
			WithDetail("dimension", dim)
	}
}

// AggregateBy groups the completed records of view by dim. Rows are sorted
// by revenue descending; equal revenues keep first-appearance order.
func AggregateBy(view []models.Transaction, dim models.Dimension) (models.AggregateTable, error) {
	keyOf, err := dimensionKey(dim)
	if err != nil {
		return models.AggregateTable{}, err
	}

	table := models.AggregateTable{Dimension: dim, Rows: []models.AggregateRow{}}
	var (
		groups []*group
		index  = make(map[string]*group)
		total  models.Money
	)
	for _, tx := range view {
		if !tx.IsCompleted() {
			continue
		}
		k := keyOf(tx)
		g, ok := index[k]
		if !ok {
			g = &group{key: k}
			if dim == models.DimensionRegion {
				g.cities = make(map[string]struct{})
			}
			index[k] = g
			groups = append(groups, g)
		}
		g.add(tx)
		total.Add(tx.NetTotal)
	}

	slices.SortStableFunc(groups, func(a, b *group) int {
		return b.revenue.Cmp(a.revenue)
	})

	for _, g := range groups {
		row := g.row()
		switch dim {
		case models.DimensionCategory:
			row.MeanDiscountPct = models.Round2(float64(g.discounts) / float64(g.sales))
		case models.DimensionRegion:
			row.Cities = len(g.cities)
		case models.DimensionPaymentMethod:
			row.SharePercent = models.SharePercent(g.revenue, total)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// TopN returns the first n rows of AggregateBy(view, dim).
func TopN(view []models.Transaction, dim models.Dimension, n int) (models.AggregateTable, error) {
	if n < 1 {
		return models.AggregateTable{}, errors.Validation(fmt.Sprintf("n must be at least 1, got %d", n)).
			WithDetail("n", n)
	}
	table, err := AggregateBy(view, dim)
	if err != nil {
		return models.AggregateTable{}, err
	}
	if len(table.Rows) > n {
		table.Rows = table.Rows[:n]
	}
	return table, nil
}

// AggregateByTime buckets completed records into calendar periods, oldest
// first. Every period between the first and last bucket gets a row, empty
// ones with zero values.
func AggregateByTime(view []models.Transaction, granularity models.Granularity) (models.AggregateTable, error) {
	if !validGranularity(granularity) {
		return models.AggregateTable{}, errors.Validation(fmt.Sprintf("unknown granularity %q", granularity)).
			WithDetail("granularity", granularity)
	}

	table := models.AggregateTable{
		Dimension:   models.DimensionTime,
		Granularity: granularity,
		Rows:        []models.AggregateRow{},
	}

	buckets := make(map[int64]*group)
	var first, last time.Time
	for _, tx := range view {
		if !tx.IsCompleted() {
			continue
		}
		start := bucketStart(tx.Date, granularity)
		g, ok := buckets[start.Unix()]
		if !ok {
			g = &group{key: bucketKey(start, granularity)}
			buckets[start.Unix()] = g
		}
		g.add(tx)

		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}
	if len(buckets) == 0 {
		return table, nil
	}

	for cur := first; !cur.After(last); cur = nextBucket(cur, granularity) {
		g, ok := buckets[cur.Unix()]
		if !ok {
			g = &group{key: bucketKey(cur, granularity)}
		}
		row := g.row()
		periodStart := cur
		row.PeriodStart = &periodStart
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func validGranularity(g models.Granularity) bool {
	switch g {
	case models.GranularityDay, models.GranularityWeek, models.GranularityMonth, models.GranularityQuarter:
		return true
	}
	return false
}

// bucketStart returns the first instant of the period containing t. Weeks
// start on Monday.
func bucketStart(t time.Time, g models.Granularity) time.Time {
	day := startOfDay(t)
	switch g {
	case models.GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case models.GranularityMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	case models.GranularityQuarter:
		month := time.Month((models.QuarterOf(day)-1)*3 + 1)
		return time.Date(day.Year(), month, 1, 0, 0, 0, 0, day.Location())
	default:
		return day
	}
}

func nextBucket(start time.Time, g models.Granularity) time.Time {
	switch g {
	case models.GranularityWeek:
		return start.AddDate(0, 0, 7)
	case models.GranularityMonth:
		return start.AddDate(0, 1, 0)
	case models.GranularityQuarter:
		return start.AddDate(0, 3, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

func bucketKey(start time.Time, g models.Granularity) string {
	switch g {
	case models.GranularityWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case models.GranularityMonth:
		return start.Format("2006-01")
	case models.GranularityQuarter:
		return models.QuarterLabel(start)
	default:
		return start.Format(time.DateOnly)
	}
}
