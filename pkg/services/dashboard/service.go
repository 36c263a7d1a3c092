package dashboard

import (
	"context"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// Service answers the dashboard questions for one immutable dataset.
type Service interface {
	Cities(ctx context.Context) ([]string, error)
	Metrics() []domain.Metric
	Summarize(ctx context.Context, sel domain.Selection) (domain.Dashboard, error)
	SummarizeTable(ctx context.Context, sel domain.Selection, name domain.TableName) (domain.SummaryTable, error)
}

type Recorder interface {
	RecordSummary(backend, metric string, err error, d time.Duration)
}

type instrumented struct {
	Service
	backend  string
	recorder Recorder
}

// WithMetrics records the outcome and duration of every summary.
func WithMetrics(svc Service, backend string, recorder Recorder) Service {
	if recorder == nil {
		return svc
	}
	return &instrumented{Service: svc, backend: backend, recorder: recorder}
}

func (i *instrumented) Summarize(ctx context.Context, sel domain.Selection) (domain.Dashboard, error) {
	start := time.Now()
	d, err := i.Service.Summarize(ctx, sel)
	i.recorder.RecordSummary(i.backend, sel.Metric.Slug(), err, time.Since(start))
	return d, err
}

func (i *instrumented) SummarizeTable(
	ctx context.Context,
	sel domain.Selection,
	name domain.TableName,
) (domain.SummaryTable, error) {
	start := time.Now()
	t, err := i.Service.SummarizeTable(ctx, sel, name)
	i.recorder.RecordSummary(i.backend, sel.Metric.Slug(), err, time.Since(start))
	return t, err
}
