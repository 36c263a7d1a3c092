package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/sales"
	"github.com/rs/zerolog"
)

// LoadFunc reads the sales source, typically csvfile.LoadFile.
type LoadFunc func(path string) ([]store.SaleRecord, error)

// Runner copies the CSV dataset into DuckDB, replacing previous contents in
// a single transaction.
type Runner struct {
	db    *sql.DB
	store sales.Store
	load  LoadFunc
}

func NewRunner(db *sql.DB, store sales.Store, load LoadFunc) *Runner {
	return &Runner{db: db, store: store, load: load}
}

// Run replaces the stored sales with the file at path and returns the stats
// of the committed dataset.
func (r *Runner) Run(ctx context.Context, path string) (*store.SaleStats, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	records, err := r.load(path)
	if err != nil {
		return nil, err
	}

	err = duckdb.InTransaction(ctx, r.db, func(ctx context.Context) error {
		if err := r.store.Reset(ctx); err != nil {
			return err
		}
		return r.store.Add(ctx, records)
	})
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}

	stats, err := r.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: read stats: %w", path, err)
	}

	event := logger.Info().
		Str("path", path).
		Int64("records", stats.RecordsCount).
		Dur("took", time.Since(start))
	if stats.FirstSale != nil && stats.LastSale != nil {
		event = event.
			Time("first_sale", *stats.FirstSale).
			Time("last_sale", *stats.LastSale)
	}
	event.Msg("sales ingested")

	return stats, nil
}
