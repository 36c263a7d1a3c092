package dashboard

import (
	"net/http"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// selection decodes ?city=..&city=..&metric=.. . Without any city parameter
// every city is selected; a present but blank city parameter selects none.
func (h *Handler) selection(r *http.Request) (domain.Selection, error) {
	q := r.URL.Query()

	metric := domain.MetricGrossIncome
	if raw := q.Get("metric"); raw != "" {
		m, err := domain.ParseMetric(raw)
		if err != nil {
			return domain.Selection{}, err
		}
		metric = m
	}

	cities, ok := q["city"]
	if !ok {
		all, err := h.svc.Cities(r.Context())
		if err != nil {
			return domain.Selection{}, err
		}
		cities = all
	}

	return domain.NewSelection(cities, metric), nil
}
