package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
	StatusCancelled Status = "Cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "CreditCard"
	PaymentDebitCard  PaymentMethod = "DebitCard"
	PaymentPIX        PaymentMethod = "PIX"
	PaymentBankSlip   PaymentMethod = "BankSlip"
)

// Transaction is one sales record. NetTotal is derived from GrossTotal and
// DiscountPercent at generation time and kept as an independent field afterwards.
type Transaction struct {
	ID              string        `json:"id"`
	Date            time.Time     `json:"date"`
	Category        string        `json:"category"`
	Product         string        `json:"product"`
	Region          string        `json:"region"`
	City            string        `json:"city"`
	UnitPrice       float64       `json:"unit_price"`
	Quantity        int           `json:"quantity"`
	GrossTotal      float64       `json:"gross_total"`
	DiscountPercent int           `json:"discount_percent"`
	NetTotal        float64       `json:"net_total"`
	Status          Status        `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Seller          string        `json:"seller"`
	CustomerID      string        `json:"customer_id"`

	Month     string `json:"month"`
	Year      int    `json:"year"`
	Quarter   int    `json:"quarter"`
	Weekday   string `json:"weekday"`
	MonthName string `json:"month_name"`
}

// WithCalendar fills the calendar columns from Date.
func (t Transaction) WithCalendar() Transaction {
	t.Month = t.Date.Format("2006-01")
	t.Year = t.Date.Year()
	t.Quarter = QuarterOf(t.Date)
	t.Weekday = t.Date.Weekday().String()
	t.MonthName = t.Date.Month().String()
	return t
}

func (t Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

func QuarterOf(d time.Time) int {
	return (int(d.Month())-1)/3 + 1
}

func QuarterLabel(d time.Time) string {
	return fmt.Sprintf("%d-Q%d", d.Year(), QuarterOf(d))
}
