package generator

import (
	"math/rand/v2"
	"sort"
)

// Weighted pairs a value with its relative draw probability.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Table is a discrete probability table. Weights need not sum to 1.
type Table[T any] struct {
	values     []T
	cumulative []float64
}

func NewTable[T any](entries ...Weighted[T]) Table[T] {
	t := Table[T]{
		values:     make([]T, 0, len(entries)),
		cumulative: make([]float64, 0, len(entries)),
	}
	total := 0.0
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		total += e.Weight
		t.values = append(t.values, e.Value)
		t.cumulative = append(t.cumulative, total)
	}
	return t
}

// Uniform builds a table where every value has the same weight.
func Uniform[T any](values ...T) Table[T] {
	entries := make([]Weighted[T], len(values))
	for i, v := range values {
		entries[i] = Weighted[T]{Value: v, Weight: 1}
	}
	return NewTable(entries...)
}

func (t Table[T]) Len() int {
	return len(t.values)
}

// Draw samples one value. It panics on an empty table.
func (t Table[T]) Draw(r *rand.Rand) T {
	if len(t.values) == 0 {
		panic("generator: draw from empty table")
	}
	x := r.Float64() * t.cumulative[len(t.cumulative)-1]
	i := sort.SearchFloat64s(t.cumulative, x)
	// SearchFloat64s returns the first cumulative >= x; x == boundary belongs to the next bucket.
	if i < len(t.cumulative) && t.cumulative[i] == x {
		i++
	}
	if i >= len(t.values) {
		i = len(t.values) - 1
	}
	return t.values[i]
}
