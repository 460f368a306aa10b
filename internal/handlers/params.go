package handlers

import (
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	defaultRowLimit = 100
	minRowLimit     = 10
	maxRowLimit     = 1000
)

// filterFromQuery reads start, end, status, category and region. Lists may be
// repeated or comma-separated; anything unparseable is ignored.
func filterFromQuery(r *http.Request) services.FilterState {
	q := r.URL.Query()
	return services.FilterInput{
		Start:      q.Get("start"),
		End:        q.Get("end"),
		Statuses:   q["status"],
		Categories: q["category"],
		Regions:    q["region"],
	}.State()
}

// intParam returns the named query parameter, or def when it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest(name + " must be an integer").WithDetail(name, raw)
	}
	return n, nil
}

func granularityParam(r *http.Request) models.Granularity {
	if g := r.URL.Query().Get("granularity"); g != "" {
		return models.Granularity(g)
	}
	return services.DefaultGranularity
}
