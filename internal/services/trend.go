package services

import (
	"slices"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// GrowthPercent returns (last-prev)/prev*100 rounded to two places. A zero
// prev has no defined growth and yields a DIVISION_UNDEFINED error.
func GrowthPercent(prev, last float64) (float64, error) {
	growth, err := rawGrowth(prev, last)
	if err != nil {
		return 0, err
	}
	return growth.Round(2).InexactFloat64(), nil
}

// rawGrowth is the unrounded growth percentage. Trend bands are decided on
// this value; only the reported figure is rounded.
func rawGrowth(prev, last float64) (decimal.Decimal, error) {
	p := decimal.NewFromFloat(prev)
	if p.IsZero() {
		return decimal.Zero, errors.DivisionUndefined("growth is undefined when the previous period total is zero").
			WithDetail("previous_total", prev).
			WithDetail("last_total", last)
	}
	return decimal.NewFromFloat(last).Sub(p).Div(p).Mul(hundred), nil
}

// ClassifyGrowth maps a growth percentage onto its trend band. Each band
// includes its upper edge: 5 is moderate, 0 is stable, -5 is decline.
func ClassifyGrowth(growth float64) models.TrendLabel {
	switch {
	case growth > 5:
		return models.TrendStrongGrowth
	case growth > 0:
		return models.TrendModerateGrowth
	case growth > -5:
		return models.TrendStable
	default:
		return models.TrendDecline
	}
}

// ComputeTrend compares the last two months with completed revenue in view.
func ComputeTrend(view []models.Transaction) models.TrendSnapshot {
	months := monthlyRevenue(view)
	if len(months) < 2 {
		return models.TrendSnapshot{
			Status: models.TrendStatusInsufficient,
			Label:  models.TrendInsufficient,
			Months: len(months),
		}
	}

	prev, last := months[len(months)-2], months[len(months)-1]
	snap := models.TrendSnapshot{
		Status:        models.TrendStatusOK,
		Months:        len(months),
		LastMonth:     last.month,
		LastTotal:     last.total.Float64(),
		PreviousMonth: prev.month,
		PreviousTotal: prev.total.Float64(),
	}

	growth, err := rawGrowth(snap.PreviousTotal, snap.LastTotal)
	if errors.HasCode(err, errors.CodeDivisionUndefined) {
		snap.Status = models.TrendStatusUndefined
		snap.Label = models.TrendUndefined
		return snap
	}
	snap.GrowthPercent = growth.Round(2).InexactFloat64()
	snap.Label = ClassifyGrowth(growth.InexactFloat64())
	return snap
}

type monthTotal struct {
	month string
	total models.Money
}

// monthlyRevenue sums completed net totals per calendar month, oldest first.
// Months without completed records are absent.
func monthlyRevenue(view []models.Transaction) []monthTotal {
	index := make(map[string]int)
	var out []monthTotal
	for _, tx := range view {
		if !tx.IsCompleted() {
			continue
		}
		key := tx.Date.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, monthTotal{month: key})
		}
		out[i].total.Add(tx.NetTotal)
	}
	// "YYYY-MM" sorts chronologically as a string.
	slices.SortFunc(out, func(a, b monthTotal) int {
		switch {
		case a.month < b.month:
			return -1
		case a.month > b.month:
			return 1
		}
		return 0
	})
	return out
}
