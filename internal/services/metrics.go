package services

import (
	"slices"

	"sales-dashboard/internal/models"
)

// ComputeMetrics summarizes a view. Revenue figures come from completed
// records only; pending and cancelled counts cover the whole view. With no
// completed records every revenue figure is 0.
func ComputeMetrics(view []models.Transaction) models.MetricSnapshot {
	var (
		snap      models.MetricSnapshot
		revenue   models.Money
		discounts int
		tickets   = make([]float64, 0, len(view))
	)

	for _, tx := range view {
		switch tx.Status {
		case models.StatusCancelled:
			snap.CancelledSales++
			continue
		case models.StatusPending:
			snap.PendingSales++
			continue
		case models.StatusCompleted:
		default:
			continue
		}

		revenue.Add(tx.NetTotal)
		tickets = append(tickets, tx.NetTotal)
		snap.TotalUnits += tx.Quantity
		discounts += tx.DiscountPercent
	}

	n := len(tickets)
	if n == 0 {
		return snap
	}

	slices.Sort(tickets)
	snap.CompletedSales = n
	snap.TotalRevenue = revenue.Float64()
	snap.MeanTicket = revenue.Mean(n)
	snap.MedianTicket = median(tickets)
	snap.MinNetTotal = tickets[0]
	snap.MaxNetTotal = tickets[n-1]
	snap.MeanDiscountPct = models.Round2(float64(discounts) / float64(n))
	return snap
}

// median expects sorted, non-empty input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return models.Round2((sorted[n/2-1] + sorted[n/2]) / 2)
}
