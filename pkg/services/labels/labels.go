package labels

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const (
	sectionMetrics = "metrics"
	sectionCharts  = "charts"
	sectionUI      = "ui"
)

var defaults = map[string]map[string]string{
	sectionMetrics: {
		"gross_income": "Faturamento Bruto",
		"rating":       "Avaliação",
	},
	sectionCharts: {
		string(domain.TableCity):            "Total por Cidade",
		string(domain.TablePayment):         "Pagamentos",
		string(domain.TableGenderCity):      "Gênero por Cidade",
		string(domain.TableDate):            "Faturamento ao longo do tempo",
		string(domain.TableProductLineCity): "Linha de Produto por Cidade",
	},
	sectionUI: {
		"title":       "Meu negocio",
		"cities":      "Cidades:",
		"metric":      "Variável de análise:",
		"revenue":     "Faturamento",
		"costs":       "Gastos",
		"profit":      "Lucro",
		"sales":       "N° Total de Vendas",
		"investments": "Investimentos",
		"empty":       "Sem dados",
	},
}

// Catalog resolves display labels for metrics, charts and page elements.
type Catalog struct {
	sections map[string]map[string]string
}

func Default() *Catalog {
	c := &Catalog{sections: make(map[string]map[string]string, len(defaults))}
	for name, keys := range defaults {
		section := make(map[string]string, len(keys))
		for k, v := range keys {
			section[k] = v
		}
		c.sections[name] = section
	}
	return c
}

// Load overlays the labels of an INI file on top of the defaults.
func Load(path string) (*Catalog, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load labels %s: %w", path, err)
	}

	c := Default()
	for _, section := range cfg.Sections() {
		target, ok := c.sections[section.Name()]
		if !ok {
			continue
		}
		for _, key := range section.Keys() {
			target[key.Name()] = key.String()
		}
	}
	return c, nil
}

func (c *Catalog) Metric(m domain.Metric) string {
	return c.lookup(sectionMetrics, m.Slug(), string(m))
}

func (c *Catalog) Chart(t domain.TableName) string {
	return c.lookup(sectionCharts, string(t), string(t))
}

func (c *Catalog) UI(key string) string {
	return c.lookup(sectionUI, key, key)
}

func (c *Catalog) lookup(section, key, fallback string) string {
	if v, ok := c.sections[section][key]; ok && v != "" {
		return v
	}
	return fallback
}
