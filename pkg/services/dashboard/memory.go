package dashboard

import (
	"context"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/aggregation"
)

type memoryService struct {
	records []domain.Transaction
	cities  []string
}

// NewMemoryService serves summaries from records held in memory. records
// must not be modified afterwards.
func NewMemoryService(records []domain.Transaction) Service {
	return &memoryService{
		records: records,
		cities:  aggregation.Cities(records),
	}
}

func (m *memoryService) Cities(_ context.Context) ([]string, error) {
	out := make([]string, len(m.cities))
	copy(out, m.cities)
	return out, nil
}

func (m *memoryService) Metrics() []domain.Metric {
	return domain.Metrics()
}

func (m *memoryService) Summarize(_ context.Context, sel domain.Selection) (domain.Dashboard, error) {
	return aggregation.Summarize(m.records, sel)
}

func (m *memoryService) SummarizeTable(
	_ context.Context,
	sel domain.Selection,
	name domain.TableName,
) (domain.SummaryTable, error) {
	spec, err := domain.LookupTable(string(name))
	if err != nil {
		return domain.SummaryTable{}, err
	}
	return aggregation.SummarizeTable(m.records, sel, spec)
}
