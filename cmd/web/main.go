package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/de-tools/sales-atlas/pkg/render/charts"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/dashboard"
	"github.com/de-tools/sales-atlas/pkg/services/ingest"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/de-tools/sales-atlas/pkg/store/csvfile"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/sales"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type flags struct {
	cfgPath string
	data    string
	host    string
	port    int
	backend string
}

func main() {
	var f flags
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Sales Atlas dashboard server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, f)
		},
	}

	rootCmd.Flags().StringVarP(&f.cfgPath, "config", "c", "", "Path to a config file (yaml, toml or json)")
	rootCmd.Flags().StringVar(&f.data, "data", "", "Path to the sales CSV file")
	rootCmd.Flags().StringVar(&f.host, "host", "", "Listen host")
	rootCmd.Flags().IntVar(&f.port, "port", 0, "Listen port")
	rootCmd.Flags().StringVar(&f.backend, "backend", "", "Data backend: memory or duckdb")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, f flags) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(f.cfgPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	catalog := labels.Default()
	if cfg.Labels != "" {
		if catalog, err = labels.Load(cfg.Labels); err != nil {
			return err
		}
		logger.Info().Msgf("Labels loaded from `%s`.", cfg.Labels)
	}

	format, err := charts.ParseFormat(cfg.Charts.Format)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()

	svc, closeFn, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	cities, err := svc.Cities(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cities: %w", err)
	}
	logger.Info().
		Str("backend", cfg.Data.Backend).
		Str("data", cfg.Data.Path).
		Strs("cities", cities).
		Msg("dataset loaded")

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Dashboard: dashboard.WithMetrics(svc, cfg.Data.Backend, recorder),
			Renderer: charts.NewRenderer(catalog, charts.Options{
				Width:    cfg.Charts.Width,
				Height:   cfg.Charts.Height,
				Recorder: recorder,
			}),
			Labels:      catalog,
			Metrics:     recorder,
			ChartFormat: format,
		},
	})

	return webAPI.Start(ctx)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	if cmd.Flags().Changed("data") {
		cfg.Data.Path = f.data
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if cmd.Flags().Changed("backend") {
		cfg.Data.Backend = f.backend
	}
}

func newService(ctx context.Context, cfg *config.Config) (dashboard.Service, func(), error) {
	if cfg.Data.Backend == config.BackendMemory {
		records, err := csvfile.LoadFile(cfg.Data.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load sales data: %w", err)
		}
		return dashboard.NewMemoryService(adapters.MapStoreSaleRecordsToDomain(records)), func() {}, nil
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Data.DuckDBPath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	closeFn := func() { _ = db.Close() }

	salesStore, err := sales.NewStore(db)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to create sales store: %w", err)
	}
	if _, err := ingest.NewRunner(db, salesStore, csvfile.LoadFile).Run(ctx, cfg.Data.Path); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to ingest sales data: %w", err)
	}
	return dashboard.NewStoreService(salesStore), closeFn, nil
}
