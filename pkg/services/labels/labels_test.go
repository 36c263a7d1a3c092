package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "Faturamento Bruto", c.Metric(domain.MetricGrossIncome))
	assert.Equal(t, "Avaliação", c.Metric(domain.MetricRating))
	assert.Equal(t, "Total por Cidade", c.Chart(domain.TableCity))
	assert.Equal(t, "Meu negocio", c.UI("title"))
	assert.Equal(t, "Investimentos", c.UI("investments"))
	assert.Equal(t, "unknown", c.UI("unknown"))
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.ini")
	content := `
[metrics]
gross_income = Gross income
rating = Rating

[charts]
city = Total by city

[ui]
title = My business

[other]
ignored = yes
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Gross income", c.Metric(domain.MetricGrossIncome))
	assert.Equal(t, "Total by city", c.Chart(domain.TableCity))
	assert.Equal(t, "Pagamentos", c.Chart(domain.TablePayment))
	assert.Equal(t, "My business", c.UI("title"))

	// defaults stay untouched
	assert.Equal(t, "Meu negocio", Default().UI("title"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}
