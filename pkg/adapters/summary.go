package adapters

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

// TitleFunc resolves the display title of a summary table.
type TitleFunc func(domain.TableName) string

func MapStoreSummaryRowsToDomain(rows []store.SummaryRow, reduction domain.Reduction) ([]domain.SummaryRow, error) {
	res := make([]domain.SummaryRow, 0, len(rows))
	for _, r := range rows {
		sum, err := parseDecimal(r.Sum)
		if err != nil {
			return nil, fmt.Errorf("summary row %v: %w", r.Keys, err)
		}
		res = append(res, domain.SummaryRow{
			Keys:  r.Keys,
			Value: reduction.Apply(sum, int(r.Count)),
			Count: int(r.Count),
		})
	}
	return res, nil
}

func MapStoreTotalsToDomain(t store.TotalsRow) (domain.Totals, error) {
	revenue, err := parseDecimal(t.Revenue)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("revenue: %w", err)
	}
	costs, err := parseDecimal(t.Costs)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("costs: %w", err)
	}
	income, err := parseDecimal(t.GrossIncome)
	if err != nil {
		return domain.Totals{}, fmt.Errorf("gross income: %w", err)
	}
	return domain.Totals{
		Revenue:     revenue,
		Costs:       costs,
		GrossIncome: income,
		Sales:       int(t.Sales),
	}, nil
}

func MapSummaryTableDomainToApi(t domain.SummaryTable, title string) api.SummaryTable {
	res := api.SummaryTable{
		Name:       string(t.Name),
		Title:      title,
		Dimensions: make([]string, 0, len(t.Dimensions)),
		Metric:     string(t.Metric),
		Reduction:  string(t.Reduction),
		Rows:       make([]api.SummaryRow, 0, len(t.Rows)),
	}
	for _, d := range t.Dimensions {
		res.Dimensions = append(res.Dimensions, string(d))
	}
	for _, r := range t.Rows {
		res.Rows = append(res.Rows, api.SummaryRow{
			Keys:  r.Keys,
			Label: r.Label(),
			Value: toFloat(r.Value),
			Count: r.Count,
		})
	}
	return res
}

func MapTotalsDomainToApi(t domain.Totals) api.Totals {
	return api.Totals{
		Revenue:     toFloat(t.Revenue),
		Costs:       toFloat(t.Costs),
		GrossIncome: toFloat(t.GrossIncome),
		Sales:       t.Sales,
	}
}

func MapSelectionDomainToApi(s domain.Selection) api.Selection {
	cities := make([]string, len(s.Cities))
	copy(cities, s.Cities)
	return api.Selection{Cities: cities, Metric: string(s.Metric)}
}

func MapDashboardDomainToApi(d domain.Dashboard, title TitleFunc) api.Dashboard {
	res := api.Dashboard{
		Selection: MapSelectionDomainToApi(d.Selection),
		Totals:    MapTotalsDomainToApi(d.Totals),
		Tables:    make([]api.SummaryTable, 0, len(d.Tables)),
	}
	for _, t := range d.Tables {
		res.Tables = append(res.Tables, MapSummaryTableDomainToApi(t, title(t.Name)))
	}
	return res
}

func MapMetricDomainToApi(m domain.Metric, label string) api.Metric {
	return api.Metric{
		ID:        m.Slug(),
		Name:      string(m),
		Label:     label,
		Reduction: string(m.Reduction()),
	}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func toFloat(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}
