// Package generator synthesizes sales transactions with distribution-controlled
// fields. All randomness flows through an explicit *rand.Rand.
package generator

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

// WindowDays is the size of the trailing window dates are drawn from.
const WindowDays = 365

const streamSeed = 0x5a1e5

var (
	discountTable = NewTable(
		Weighted[int]{Value: 0, Weight: 0.30},
		Weighted[int]{Value: 5, Weight: 0.20},
		Weighted[int]{Value: 10, Weight: 0.15},
		Weighted[int]{Value: 15, Weight: 0.15},
		Weighted[int]{Value: 20, Weight: 0.10},
		Weighted[int]{Value: 25, Weight: 0.05},
		Weighted[int]{Value: 30, Weight: 0.05},
	)
	statusTable = NewTable(
		Weighted[models.Status]{Value: models.StatusCompleted, Weight: 0.85},
		Weighted[models.Status]{Value: models.StatusPending, Weight: 0.10},
		Weighted[models.Status]{Value: models.StatusCancelled, Weight: 0.05},
	)
	paymentTable = NewTable(
		Weighted[models.PaymentMethod]{Value: models.PaymentCreditCard, Weight: 0.40},
		Weighted[models.PaymentMethod]{Value: models.PaymentDebitCard, Weight: 0.20},
		Weighted[models.PaymentMethod]{Value: models.PaymentPIX, Weight: 0.30},
		Weighted[models.PaymentMethod]{Value: models.PaymentBankSlip, Weight: 0.10},
	)
	categoryTable = Uniform(models.Categories...)
	regionTable   = Uniform(models.Regions...)
)

type Generator struct {
	rng *rand.Rand
	now time.Time
}

// New returns a generator drawing from rng, with the date window ending at now.
func New(rng *rand.Rand, now time.Time) *Generator {
	return &Generator{rng: rng, now: now.UTC()}
}

// NewSeeded returns a generator whose output is fully determined by seed and now.
func NewSeeded(seed int64, now time.Time) *Generator {
	return New(rand.New(rand.NewPCG(uint64(seed), streamSeed)), now)
}

// Generate is shorthand for NewSeeded(seed, now).Generate(count).
func Generate(count int, seed int64, now time.Time) ([]models.Transaction, error) {
	return NewSeeded(seed, now).Generate(count)
}

// Generate produces count transactions on distinct days of the trailing window,
// in ascending date order.
func (g *Generator) Generate(count int) ([]models.Transaction, error) {
	if count < 1 {
		return nil, errors.Configuration(fmt.Sprintf("record count must be at least 1, got %d", count)).
			WithDetail("count", count)
	}
	if count > WindowDays {
		return nil, errors.Configuration(
			fmt.Sprintf("record count %d exceeds the %d distinct days available in the window", count, WindowDays)).
			WithDetail("count", count).
			WithDetail("available_days", WindowDays)
	}

	dates := g.drawDates(count)
	out := make([]models.Transaction, count)
	for i := range out {
		out[i] = g.record(i, dates[i])
	}
	return out, nil
}

func (g *Generator) drawDates(count int) []time.Time {
	start := g.now.AddDate(0, 0, -WindowDays)
	offsets := g.rng.Perm(WindowDays)[:count]
	slices.Sort(offsets)

	dates := make([]time.Time, count)
	for i, off := range offsets {
		dates[i] = start.AddDate(0, 0, off+1)
	}
	return dates
}

func (g *Generator) record(i int, date time.Time) models.Transaction {
	category := categoryTable.Draw(g.rng)
	region := regionTable.Draw(g.rng)
	cities := models.RegionCities[region]
	city := cities[g.rng.IntN(len(cities))]

	prices := models.CategoryPrices[category]
	unitPrice := decimal.NewFromFloat(prices.Min + g.rng.Float64()*(prices.Max-prices.Min)).Round(2)
	quantity := 1 + g.rng.IntN(9)
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	discount := discountTable.Draw(g.rng)
	factor := decimal.NewFromInt(int64(100 - discount)).Div(decimal.NewFromInt(100))
	net := gross.Mul(factor).Round(2)

	status := statusTable.Draw(g.rng)
	payment := paymentTable.Draw(g.rng)
	seller := fmt.Sprintf("Seller %d", 1+g.rng.IntN(models.SellerCount))
	customer := fmt.Sprintf("C%d", 1000+g.rng.IntN(8999))

	return models.Transaction{
		ID:              fmt.Sprintf("V%05d", i+1),
		Date:            date,
		Category:        category,
		Product:         fmt.Sprintf("Product %s %d", category, i+1),
		Region:          region,
		City:            city,
		UnitPrice:       unitPrice.InexactFloat64(),
		Quantity:        quantity,
		GrossTotal:      gross.InexactFloat64(),
		DiscountPercent: discount,
		NetTotal:        net.InexactFloat64(),
		Status:          status,
		PaymentMethod:   payment,
		Seller:          seller,
		CustomerID:      customer,
	}.WithCalendar()
}
