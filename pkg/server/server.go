package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	handlers "github.com/de-tools/sales-atlas/pkg/handlers/dashboard"
	"github.com/de-tools/sales-atlas/pkg/metrics"
	"github.com/de-tools/sales-atlas/pkg/render/charts"
	"github.com/de-tools/sales-atlas/pkg/services/dashboard"
	"github.com/de-tools/sales-atlas/pkg/services/labels"

	salesatlasmiddleware "github.com/de-tools/sales-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Dashboard   dashboard.Service
	Renderer    *charts.Renderer
	Labels      *labels.Catalog
	Metrics     *metrics.Recorder
	ChartFormat charts.Format
	Logger      zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	if deps.Labels == nil {
		deps.Labels = labels.Default()
	}
	if deps.Renderer == nil {
		deps.Renderer = charts.NewRenderer(deps.Labels, charts.Options{})
	}
	h := handlers.NewHandler(deps.Dashboard, deps.Renderer, deps.Labels, deps.ChartFormat)

	router := chi.NewRouter()

	router.Use(salesatlasmiddleware.RequestID)
	router.Use(salesatlasmiddleware.Logger(&deps.Logger))
	if deps.Metrics != nil {
		router.Use(salesatlasmiddleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", h.ListCities)
		r.Get("/metrics", h.ListMetrics)
		r.Get("/summary", h.GetSummary)
		r.Get("/summary/{table}", h.GetTable)
		r.Get("/charts/{table}", h.GetChart)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves until ctx is cancelled, then drains outstanding requests.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
