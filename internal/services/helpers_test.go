package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/generator"
	"sales-dashboard/internal/models"
)

var fixedNow = time.Date(2024, 10, 15, 13, 45, 30, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

type option func(*models.Transaction)

func status(s models.Status) option { return func(tx *models.Transaction) { tx.Status = s } }
func category(c string) option { return func(tx *models.Transaction) { tx.Category = c } }
func region(r, city string) option { return func(tx *models.Transaction) { tx.Region, tx.City = r, city } }
func seller(s string) option { return func(tx *models.Transaction) { tx.Seller = s } }
func payment(p models.PaymentMethod) option { return func(tx *models.Transaction) { tx.PaymentMethod = p } }
func quantity(q int) option { return func(tx *models.Transaction) { tx.Quantity = q } }
func discount(d int) option { return func(tx *models.Transaction) { tx.DiscountPercent = d } }

// sale builds a completed Books sale in Curitiba unless options say otherwise.
func sale(id string, date time.Time, net float64, opts ...option) models.Transaction {
	tx := models.Transaction{
		ID:            id,
		Date:          date,
		Category:      "Books",
		Product:       "Product " + id,
		Region:        "South",
		City:          "Curitiba",
		UnitPrice:     net,
		Quantity:      1,
		GrossTotal:    net,
		NetTotal:      net,
		Status:        models.StatusCompleted,
		PaymentMethod: models.PaymentPIX,
		Seller:        "Seller 1",
		CustomerID:    "C1000",
	}
	for _, opt := range opts {
		opt(&tx)
	}
	return tx.WithCalendar()
}

func generated(t testing.TB, n int, seed int64) []models.Transaction {
	t.Helper()
	records, err := generator.Generate(n, seed, fixedNow)
	require.NoError(t, err)
	return records
}
