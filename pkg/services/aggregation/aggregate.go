// Package aggregation implements the filter -> group by -> reduce step that
// feeds every chart of the dashboard.
package aggregation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Summarize computes every summary table and the header totals for sel.
func Summarize(records []domain.Transaction, sel domain.Selection) (domain.Dashboard, error) {
	if !sel.Metric.Valid() {
		return domain.Dashboard{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, sel.Metric)
	}

	filtered := Filter(records, sel)

	specs := domain.Tables()
	tables := make([]domain.SummaryTable, 0, len(specs))
	for _, spec := range specs {
		tables = append(tables, reduce(filtered, spec, sel.Metric))
	}

	return domain.Dashboard{
		Selection: sel,
		Totals:    totals(filtered),
		Tables:    tables,
	}, nil
}

// SummarizeTable computes a single summary table.
func SummarizeTable(records []domain.Transaction, sel domain.Selection, spec domain.TableSpec) (domain.SummaryTable, error) {
	if !sel.Metric.Valid() {
		return domain.SummaryTable{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, sel.Metric)
	}
	return reduce(Filter(records, sel), spec, sel.Metric), nil
}

// ComputeTotals sums revenue, costs and gross income of the selected cities.
func ComputeTotals(records []domain.Transaction, sel domain.Selection) domain.Totals {
	return totals(Filter(records, sel))
}

// Filter keeps the records whose city is part of the selection.
func Filter(records []domain.Transaction, sel domain.Selection) []domain.Transaction {
	if sel.IsEmpty() {
		return nil
	}
	set := sel.CitySet()
	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if _, ok := set[r.City]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Cities returns the distinct cities ordered by number of sales, most first.
func Cities(records []domain.Transaction) []string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.City]++
	}
	cities := make([]string, 0, len(counts))
	for c := range counts {
		cities = append(cities, c)
	}
	sort.Slice(cities, func(i, j int) bool {
		if counts[cities[i]] != counts[cities[j]] {
			return counts[cities[i]] > counts[cities[j]]
		}
		return cities[i] < cities[j]
	})
	return cities
}

type group struct {
	keys  []string
	sum   decimal.Decimal
	count int
}

func reduce(records []domain.Transaction, spec domain.TableSpec, metric domain.Metric) domain.SummaryTable {
	table := domain.SummaryTable{
		Name:       spec.Name,
		Dimensions: spec.Dimensions,
		Metric:     metric,
		Reduction:  metric.Reduction(),
		Rows:       []domain.SummaryRow{},
	}

	groups := make(map[string]*group)
	for _, r := range records {
		keys := make([]string, len(spec.Dimensions))
		for i, d := range spec.Dimensions {
			keys[i] = d.Value(r)
		}
		id := strings.Join(keys, "\x1f")
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys, sum: decimal.Zero}
			groups[id] = g
		}
		g.sum = g.sum.Add(metric.Value(r))
		g.count++
	}

	for _, g := range groups {
		table.Rows = append(table.Rows, domain.SummaryRow{
			Keys:  g.keys,
			Value: table.Reduction.Apply(g.sum, g.count),
			Count: g.count,
		})
	}

	// Date keys are ISO formatted so lexicographic order is chronological.
	sort.Slice(table.Rows, func(i, j int) bool {
		return lessKeys(table.Rows[i].Keys, table.Rows[j].Keys)
	})
	return table
}

func lessKeys(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func totals(records []domain.Transaction) domain.Totals {
	t := domain.Totals{
		Revenue:     decimal.Zero,
		Costs:       decimal.Zero,
		GrossIncome: decimal.Zero,
	}
	for _, r := range records {
		t.Revenue = t.Revenue.Add(r.Total)
		t.Costs = t.Costs.Add(r.COGS)
		t.GrossIncome = t.GrossIncome.Add(r.GrossIncome)
		t.Sales++
	}
	return t
}
