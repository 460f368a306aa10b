package services

import (
	"slices"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

// FilterState is an immutable filter selection. Zero dates and empty sets mean
// "no constraint".
type FilterState struct {
	Start      time.Time       `json:"start,omitzero"`
	End        time.Time       `json:"end,omitzero"`
	Statuses   []models.Status `json:"statuses,omitempty"`
	Categories []string        `json:"categories,omitempty"`
	Regions    []string        `json:"regions,omitempty"`
}

// IsEmpty reports whether the state constrains nothing.
func (f FilterState) IsEmpty() bool {
	return f.Start.IsZero() && f.End.IsZero() &&
		len(f.Statuses) == 0 && len(f.Categories) == 0 && len(f.Regions) == 0
}

// FilterInput is the raw, untrusted form of a FilterState as it arrives from
// query strings or dashboard signals.
type FilterInput struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	Statuses   []string `json:"statuses"`
	Categories []string `json:"categories"`
	Regions    []string `json:"regions"`
}

// State converts the input. Unparseable dates and unknown statuses are dropped.
func (in FilterInput) State() FilterState {
	state := FilterState{
		Start:      parseBound(in.Start),
		End:        parseBound(in.End),
		Categories: splitValues(in.Categories),
		Regions:    splitValues(in.Regions),
	}
	for _, raw := range splitValues(in.Statuses) {
		for _, known := range models.Statuses {
			if strings.EqualFold(raw, string(known)) && !slices.Contains(state.Statuses, known) {
				state.Statuses = append(state.Statuses, known)
			}
		}
	}
	return state
}

func parseBound(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// splitValues flattens repeated and comma-separated values, dropping blanks
// and duplicates while keeping first-seen order.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}

type predicate func(models.Transaction) bool

func keep(view []models.Transaction, preds ...predicate) []models.Transaction {
	out := make([]models.Transaction, 0, len(view))
	for _, tx := range view {
		ok := true
		for _, p := range preds {
			if !p(tx) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, tx)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// datePredicate keeps start <= ts < start-of-day(end)+1 day, so the end day
// is included through its last instant at any precision.
func datePredicate(start, end time.Time) predicate {
	if start.IsZero() && end.IsZero() {
		return nil
	}
	lower, upper := start, time.Time{}
	if !end.IsZero() {
		upper = startOfDay(end).AddDate(0, 0, 1)
	}
	return func(tx models.Transaction) bool {
		if !lower.IsZero() && tx.Date.Before(lower) {
			return false
		}
		if !upper.IsZero() && !tx.Date.Before(upper) {
			return false
		}
		return true
	}
}

func memberPredicate[K comparable](set []K, key func(models.Transaction) K) predicate {
	if len(set) == 0 {
		return nil
	}
	index := make(map[K]struct{}, len(set))
	for _, v := range set {
		index[v] = struct{}{}
	}
	return func(tx models.Transaction) bool {
		_, ok := index[key(tx)]
		return ok
	}
}

func run(view []models.Transaction, preds ...predicate) []models.Transaction {
	active := slices.DeleteFunc(preds, func(p predicate) bool { return p == nil })
	return keep(view, active...)
}

// FilterByDate keeps records dated from the start of start's day through the
// end of end's day. A zero bound is open.
func FilterByDate(view []models.Transaction, start, end time.Time) []models.Transaction {
	return run(view, datePredicate(start, end))
}

// FilterByStatus keeps records whose status is in statuses. An empty set keeps everything.
func FilterByStatus(view []models.Transaction, statuses []models.Status) []models.Transaction {
	return run(view, memberPredicate(statuses, func(tx models.Transaction) models.Status { return tx.Status }))
}

func FilterByCategory(view []models.Transaction, categories []string) []models.Transaction {
	return run(view, memberPredicate(categories, func(tx models.Transaction) string { return tx.Category }))
}

func FilterByRegion(view []models.Transaction, regions []string) []models.Transaction {
	return run(view, memberPredicate(regions, func(tx models.Transaction) string { return tx.Region }))
}

// Apply returns a new view holding the records that pass every constraint of
// state. The source slice is never modified.
func Apply(view []models.Transaction, state FilterState) []models.Transaction {
	return run(view,
		datePredicate(state.Start, state.End),
		memberPredicate(state.Statuses, func(tx models.Transaction) models.Status { return tx.Status }),
		memberPredicate(state.Categories, func(tx models.Transaction) string { return tx.Category }),
		memberPredicate(state.Regions, func(tx models.Transaction) string { return tx.Region }),
	)
}
