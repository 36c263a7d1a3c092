// Package charts renders summary tables as pie, bar and time series charts.
package charts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

type Recorder interface {
	RecordChartRender(table, format string, d time.Duration)
}

type Options struct {
	Width    int
	Height   int
	Recorder Recorder
}

type Renderer struct {
	labels   *labels.Catalog
	width    int
	height   int
	recorder Recorder
}

func NewRenderer(catalog *labels.Catalog, opts Options) *Renderer {
	if catalog == nil {
		catalog = labels.Default()
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	return &Renderer{
		labels:   catalog,
		width:    opts.Width,
		height:   opts.Height,
		recorder: opts.Recorder,
	}
}

// Render draws one summary table. The city table is a pie, dates a time
// series and everything else a bar chart. Empty tables draw a placeholder.
func (r *Renderer) Render(w io.Writer, t domain.SummaryTable, format Format) error {
	start := time.Now()
	defer func() {
		if r.recorder != nil {
			r.recorder.RecordChartRender(string(t.Name), string(format), time.Since(start))
		}
	}()

	title := r.labels.Chart(t.Name)
	provider := format.provider()

	if len(t.Rows) == 0 {
		return r.placeholder(title).Render(provider, w)
	}

	switch {
	case t.Name == domain.TableCity:
		return r.pie(title, t).Render(provider, w)
	case t.Name == domain.TableDate && len(t.Rows) > 1:
		c, err := r.timeSeries(title, t)
		if err != nil {
			return err
		}
		return c.Render(provider, w)
	default:
		return r.bar(title, t).Render(provider, w)
	}
}

// RenderAll draws every table of the dashboard concurrently.
func (r *Renderer) RenderAll(ctx context.Context, d domain.Dashboard, format Format) (map[domain.TableName][]byte, error) {
	var mu sync.Mutex
	out := make(map[domain.TableName][]byte, len(d.Tables))

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range d.Tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, t, format); err != nil {
				return fmt.Errorf("render %s: %w", t.Name, err)
			}
			mu.Lock()
			out[t.Name] = buf.Bytes()
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Renderer) placeholder(title string) chart.PieChart {
	return chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: []chart.Value{{Value: 1, Label: r.labels.UI("empty")}},
	}
}

func (r *Renderer) pie(title string, t domain.SummaryTable) chart.PieChart {
	values := make([]chart.Value, 0, len(t.Rows))
	var total float64
	for _, row := range t.Rows {
		v := row.Value.InexactFloat64()
		total += v
		values = append(values, chart.Value{Value: v, Label: fmt.Sprintf("%s (%s)", row.Label(), row.Value.StringFixed(2))})
	}
	if total <= 0 {
		return r.placeholder(title)
	}
	return chart.PieChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
}

func (r *Renderer) bar(title string, t domain.SummaryTable) chart.BarChart {
	bars := make([]chart.Value, 0, len(t.Rows))
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		v := row.Value.InexactFloat64()
		values = append(values, v)
		bars = append(bars, chart.Value{Value: v, Label: row.Label()})
	}

	barWidth := (r.width - 100) / (2 * len(bars))
	if barWidth < 4 {
		barWidth = 4
	}
	if barWidth > 60 {
		barWidth = 60
	}

	return chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  r.labels.Metric(t.Metric),
			Range: valueRange(values),
		},
		Bars: bars,
	}
}

func (r *Renderer) timeSeries(title string, t domain.SummaryTable) (chart.Chart, error) {
	xs := make([]time.Time, 0, len(t.Rows))
	ys := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		day, err := time.Parse(domain.DateLayout, row.Keys[0])
		if err != nil {
			return chart.Chart{}, fmt.Errorf("invalid date key %q: %w", row.Keys[0], err)
		}
		xs = append(xs, day)
		ys = append(ys, row.Value.InexactFloat64())
	}

	return chart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{
			Name:  r.labels.Metric(t.Metric),
			Range: valueRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    r.labels.Metric(t.Metric),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorBlue.WithAlpha(64),
				},
			},
		},
	}, nil
}

// valueRange anchors the axis at zero and never returns an empty range.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}
