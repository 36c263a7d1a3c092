package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns its registry so several instances can coexist in tests.
type Recorder struct {
	registry        *prometheus.Registry
	summaries       *prometheus.CounterVec
	summaryDuration *prometheus.HistogramVec
	chartDuration   *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_atlas_summaries_total",
				Help: "Total number of dashboard summaries computed",
			},
			[]string{"backend", "metric", "status"},
		),
		summaryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sales_atlas_summary_duration_milliseconds",
				Help:    "Summary computation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 12),
			},
			[]string{"backend"},
		),
		chartDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sales_atlas_chart_render_duration_milliseconds",
				Help:    "Chart rendering duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"table", "format"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_atlas_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sales_atlas_http_request_duration_milliseconds",
				Help:    "HTTP request duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"route"},
		),
	}
}

func (r *Recorder) RecordSummary(backend, metric string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.summaries.WithLabelValues(backend, metric, status).Inc()
	r.summaryDuration.WithLabelValues(backend).Observe(millis(d))
}

func (r *Recorder) RecordChartRender(table, format string, d time.Duration) {
	r.chartDuration.WithLabelValues(table, format).Observe(millis(d))
}

func (r *Recorder) RecordRequest(method, route string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(millis(d))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
