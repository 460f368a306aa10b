package models

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Money accumulates monetary values without float drift.
type Money struct {
	sum decimal.Decimal
}

func (m *Money) Add(v float64) {
	m.sum = m.sum.Add(decimal.NewFromFloat(v))
}

func (m Money) Float64() float64 {
	return m.sum.InexactFloat64()
}

func (m Money) Cmp(other Money) int {
	return m.sum.Cmp(other.sum)
}

func (m Money) IsZero() bool {
	return m.sum.IsZero()
}

// Mean returns sum/n rounded to two places, or 0 when n is 0.
func (m Money) Mean(n int) float64 {
	if n == 0 {
		return 0
	}
	return m.sum.Div(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
}

// SharePercent returns part/total*100 rounded to two places, or 0 when total is 0.
func SharePercent(part, total Money) float64 {
	if total.IsZero() {
		return 0
	}
	return part.sum.Div(total.sum).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}
