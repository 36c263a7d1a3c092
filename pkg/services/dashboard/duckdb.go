package dashboard

import (
	"context"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/sales"
)

type storeService struct {
	store sales.Store
}

// NewStoreService runs the group-by inside DuckDB.
func NewStoreService(store sales.Store) Service {
	return &storeService{store: store}
}

func (s *storeService) Cities(ctx context.Context) ([]string, error) {
	return s.store.Cities(ctx)
}

func (s *storeService) Metrics() []domain.Metric {
	return domain.Metrics()
}

func (s *storeService) Summarize(ctx context.Context, sel domain.Selection) (domain.Dashboard, error) {
	if !sel.Metric.Valid() {
		return domain.Dashboard{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, sel.Metric)
	}

	specs := domain.Tables()
	tables := make([]domain.SummaryTable, 0, len(specs))
	for _, spec := range specs {
		t, err := s.summarize(ctx, sel, spec)
		if err != nil {
			return domain.Dashboard{}, err
		}
		tables = append(tables, t)
	}

	row, err := s.store.Totals(ctx, sel.Cities)
	if err != nil {
		return domain.Dashboard{}, err
	}
	totals, err := adapters.MapStoreTotalsToDomain(row)
	if err != nil {
		return domain.Dashboard{}, err
	}

	return domain.Dashboard{Selection: sel, Totals: totals, Tables: tables}, nil
}

func (s *storeService) SummarizeTable(
	ctx context.Context,
	sel domain.Selection,
	name domain.TableName,
) (domain.SummaryTable, error) {
	if !sel.Metric.Valid() {
		return domain.SummaryTable{}, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, sel.Metric)
	}
	spec, err := domain.LookupTable(string(name))
	if err != nil {
		return domain.SummaryTable{}, err
	}
	return s.summarize(ctx, sel, spec)
}

func (s *storeService) summarize(ctx context.Context, sel domain.Selection, spec domain.TableSpec) (domain.SummaryTable, error) {
	rows, err := s.store.Summarize(ctx, spec, sel.Metric, sel.Cities)
	if err != nil {
		return domain.SummaryTable{}, err
	}
	mapped, err := adapters.MapStoreSummaryRowsToDomain(rows, sel.Metric.Reduction())
	if err != nil {
		return domain.SummaryTable{}, err
	}
	return domain.SummaryTable{
		Name:       spec.Name,
		Dimensions: spec.Dimensions,
		Metric:     sel.Metric,
		Reduction:  sel.Metric.Reduction(),
		Rows:       mapped,
	}, nil
}
