package adapters

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// Labels is the subset of the label catalog the report needs.
type Labels interface {
	Metric(m domain.Metric) string
	Chart(t domain.TableName) string
	UI(key string) string
}

func MapDashboardToReport(d domain.Dashboard, labels Labels) *domain.Report {
	cities := "-"
	if !d.Selection.IsEmpty() {
		cities = strings.Join(d.Selection.Cities, ", ")
	}

	report := &domain.Report{
		Title:    labels.UI("title"),
		Subtitle: fmt.Sprintf("%s: %s | %s", labels.UI("metric"), labels.Metric(d.Selection.Metric), cities),
		Totals: []domain.ReportDetail{
			{Name: labels.UI("revenue"), Value: d.Totals.Revenue.StringFixed(2)},
			{Name: labels.UI("costs"), Value: d.Totals.Costs.StringFixed(2)},
			{Name: labels.UI("profit"), Value: d.Totals.GrossIncome.StringFixed(2)},
			{Name: labels.UI("sales"), Value: d.Totals.Sales},
		},
		Sections: make([]domain.ReportSection, 0, len(d.Tables)),
	}

	for _, t := range d.Tables {
		section := domain.ReportSection{
			Title: labels.Chart(t.Name),
			Summary: map[string]interface{}{
				"reduction": string(t.Reduction),
				"rows":      len(t.Rows),
			},
			Details: make([]domain.ReportDetail, 0, len(t.Rows)),
		}
		for _, r := range t.Rows {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        r.Label(),
				Value:       r.Value.StringFixed(2),
				Unit:        string(t.Metric),
				Description: fmt.Sprintf("%d sales", r.Count),
			})
		}
		report.Sections = append(report.Sections, section)
	}
	return report
}
