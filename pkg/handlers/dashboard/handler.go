package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/render/charts"
	"github.com/de-tools/sales-atlas/pkg/services/dashboard"
	"github.com/de-tools/sales-atlas/pkg/services/labels"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

type Handler struct {
	svc      dashboard.Service
	renderer *charts.Renderer
	labels   *labels.Catalog
	format   charts.Format
}

func NewHandler(svc dashboard.Service, renderer *charts.Renderer, catalog *labels.Catalog, format charts.Format) *Handler {
	if catalog == nil {
		catalog = labels.Default()
	}
	if format == "" {
		format = charts.FormatSVG
	}
	return &Handler{
		svc:      svc,
		renderer: renderer,
		labels:   catalog,
		format:   format,
	}
}

type option struct {
	Value   string
	Label   string
	Checked bool
}

type panel struct {
	Name  string
	Title string
}

type pageData struct {
	Title       string
	CitiesLabel string
	MetricLabel string
	Cards       []option
	Cities      []option
	Metrics     []option
	Panels      []panel
	Format      string
}

// Index renders the dashboard page with every city checked and gross income
// selected.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	cities, err := h.svc.Cities(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := pageData{
		Title:       h.labels.UI("title"),
		CitiesLabel: h.labels.UI("cities"),
		MetricLabel: h.labels.UI("metric"),
		Format:      string(h.format),
	}
	// investments has no backing total and always renders as "-".
	for _, card := range []string{"revenue", "costs", "profit", "sales", "investments"} {
		data.Cards = append(data.Cards, option{Value: card, Label: h.labels.UI(card)})
	}
	for _, c := range cities {
		data.Cities = append(data.Cities, option{Value: c, Label: c, Checked: true})
	}
	for _, m := range h.svc.Metrics() {
		data.Metrics = append(data.Metrics, option{
			Value:   m.Slug(),
			Label:   h.labels.Metric(m),
			Checked: m == domain.MetricGrossIncome,
		})
	}
	for _, spec := range domain.Tables() {
		data.Panels = append(data.Panels, panel{Name: string(spec.Name), Title: h.labels.Chart(spec.Name)})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logger.Error().Err(err).Msg("failed to render dashboard page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.Cities(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, cities)
}

func (h *Handler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := h.svc.Metrics()
	response := make([]api.Metric, 0, len(metrics))
	for _, m := range metrics {
		response = append(response, adapters.MapMetricDomainToApi(m, h.labels.Metric(m)))
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sel, err := h.selection(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d, err := h.svc.Summarize(ctx, sel)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapDashboardDomainToApi(d, h.labels.Chart))
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapSummaryTableDomainToApi(t, h.labels.Chart(t.Name)))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	format := h.format
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := charts.ParseFormat(raw)
		if err != nil {
			h.writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
			return
		}
		format = f
	}

	t, ok := h.table(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, t, format); err != nil {
		logger.Error().
			Err(err).
			Str("table", string(t.Name)).
			Msg("failed to render chart")
		h.writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: "failed to render chart"})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) (domain.SummaryTable, bool) {
	name := chi.URLParam(r, "table")
	if _, err := domain.LookupTable(name); err != nil {
		h.writeError(w, r, err)
		return domain.SummaryTable{}, false
	}

	sel, err := h.selection(r)
	if err != nil {
		h.writeError(w, r, err)
		return domain.SummaryTable{}, false
	}

	t, err := h.svc.SummarizeTable(r.Context(), sel, domain.TableName(name))
	if err != nil {
		h.writeError(w, r, err)
		return domain.SummaryTable{}, false
	}
	return t, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, domain.ErrUnknownMetric):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnknownTable):
		status, message = http.StatusNotFound, err.Error()
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	h.writeJSON(w, r, status, api.Error{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
