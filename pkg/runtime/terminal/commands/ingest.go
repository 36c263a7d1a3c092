package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/services/ingest"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/sales"
	"github.com/spf13/cobra"
)

type IngestCmd struct {
	env      *Env
	dataPath string
	dbPath   string
}

func NewIngestCmd(env *Env) *cobra.Command {
	ic := &IngestCmd{env: env}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load the sales CSV into a DuckDB file",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.dataPath, "data", "supermarket_sales.csv", "Path to the sales CSV file")
	cmd.Flags().StringVar(&ic.dbPath, "db", "", "Path to the DuckDB file")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func (ic *IngestCmd) run(cmd *cobra.Command, _ []string) error {
	db, err := openDB(ic.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := sales.NewStore(db)
	if err != nil {
		return err
	}

	stats, err := ingest.NewRunner(db, store, ic.env.Load).Run(cmd.Context(), ic.dataPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(ic.env.Output, "ingested %d sales into %s\n", stats.RecordsCount, ic.dbPath)
	if stats.FirstSale != nil && stats.LastSale != nil {
		fmt.Fprintf(ic.env.Output, "sales from %s to %s\n",
			stats.FirstSale.Format(time.DateOnly), stats.LastSale.Format(time.DateOnly))
	}
	return nil
}
