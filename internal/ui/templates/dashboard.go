// Package templates holds the server-rendered dashboard page. Live content is
// patched in over SSE by the datastar handlers.
package templates

import (
	"encoding/json"
	"time"

	"sales-dashboard/internal/models"
)

var granularities = []string{
	string(models.GranularityDay),
	string(models.GranularityWeek),
	string(models.GranularityMonth),
	string(models.GranularityQuarter),
}

// pageSignals seeds the page's signal store. Keys match the SSE handlers.
type pageSignals struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Statuses    []string `json:"statuses"`
	Categories  []string `json:"categories"`
	Regions     []string `json:"regions"`
	Granularity string   `json:"granularity"`
	TopN        int      `json:"topN"`
	Records     int      `json:"records"`
	TrendLabel  string   `json:"trendLabel"`
	Timeline    any      `json:"timeline"`
	Heatmap     any      `json:"heatmap"`
	StatusChart any      `json:"statusChart"`
}

func initialSignals() (string, error) {
	b, err := json.Marshal(pageSignals{
		Statuses:    []string{},
		Categories:  []string{},
		Regions:     []string{},
		Granularity: string(models.GranularityMonth),
		TopN:        10,
	})
	return string(b), err
}

// dateAttr formats d for a date input bound, empty when d is unset.
func dateAttr(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func statusNames(statuses []models.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
