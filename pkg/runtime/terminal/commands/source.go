package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/services/dashboard"
	"github.com/de-tools/sales-atlas/pkg/services/ingest"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/sales"
	"github.com/spf13/cobra"
)

// Env is shared by every command of the CLI.
type Env struct {
	Load     ingest.LoadFunc
	Labels   *labels.Catalog
	Reporter *export.Reporter
	Output   io.Writer
}

// source selects where summaries come from: the CSV file, or a DuckDB file
// previously filled by `ingest` when --db is set.
type source struct {
	dataPath string
	dbPath   string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.dataPath, "data", "supermarket_sales.csv", "Path to the sales CSV file")
	cmd.Flags().StringVar(&s.dbPath, "db", "", "Read from this DuckDB file instead of the CSV")
}

func (s *source) open(env *Env) (dashboard.Service, func(), error) {
	if s.dbPath == "" {
		records, err := env.Load(s.dataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", s.dataPath, err)
		}
		return dashboard.NewMemoryService(adapters.MapStoreSaleRecordsToDomain(records)), func() {}, nil
	}

	db, err := openDB(s.dbPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := sales.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return dashboard.NewStoreService(store), func() { _ = db.Close() }, nil
}

// snapshot reads every sale once and aggregates in memory. Commands that
// render all tables use it to avoid one query per table and metric.
func (s *source) snapshot(ctx context.Context, env *Env) (dashboard.Service, error) {
	if s.dbPath == "" {
		svc, _, err := s.open(env)
		return svc, err
	}

	db, err := openDB(s.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store, err := sales.NewStore(db)
	if err != nil {
		return nil, err
	}
	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.dbPath, err)
	}
	return dashboard.NewMemoryService(adapters.MapStoreSaleRecordsToDomain(records)), nil
}

// selectionFlags decode --city and --metric the same way the HTTP API does:
// no --city means every city.
type selectionFlags struct {
	cities []string
	metric string
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.cities, "city", nil, "City to include (repeatable, default all)")
	cmd.Flags().StringVar(&f.metric, "metric", string(domain.MetricGrossIncome), "Metric: gross_income or rating")
}

func (f *selectionFlags) selection(ctx context.Context, cmd *cobra.Command, svc dashboard.Service) (domain.Selection, error) {
	metric, err := domain.ParseMetric(f.metric)
	if err != nil {
		return domain.Selection{}, err
	}

	cities := f.cities
	if !cmd.Flags().Changed("city") {
		if cities, err = svc.Cities(ctx); err != nil {
			return domain.Selection{}, err
		}
	}
	return domain.NewSelection(cities, metric), nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB %s: %w", path, err)
	}
	return db, nil
}
