package aggregation

import (
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2019, time.January, d, 0, 0, 0, 0, time.UTC)
}

func sale(city, payment, gender, line string, date time.Time, income string, rating float64) domain.Transaction {
	inc := decimal.RequireFromString(income)
	return domain.Transaction{
		City:        city,
		Payment:     payment,
		Gender:      gender,
		ProductLine: line,
		Date:        date,
		GrossIncome: inc,
		Total:       inc.Mul(decimal.NewFromInt(21)),
		COGS:        inc.Mul(decimal.NewFromInt(20)),
		Rating:      rating,
	}
}

func fixture() []domain.Transaction {
	return []domain.Transaction{
		sale("Yangon", "Cash", "Female", "Health and beauty", day(5), "10", 4),
		sale("Yangon", "Ewallet", "Male", "Sports and travel", day(6), "20", 6),
		sale("Mandalay", "Cash", "Female", "Health and beauty", day(5), "7.5", 9.1),
		sale("Naypyitaw", "Credit card", "Male", "Food and beverages", day(7), "3.25", 7),
		sale("Naypyitaw", "Cash", "Female", "Food and beverages", day(7), "1.75", 8),
		sale("Naypyitaw", "Cash", "Female", "Home and lifestyle", day(8), "5", 5),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func rowKeys(table domain.SummaryTable) [][]string {
	keys := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		keys = append(keys, r.Keys)
	}
	return keys
}

func TestSummarize_GrossIncomeIsSummed(t *testing.T) {
	d, err := Summarize(fixture(), domain.NewSelection([]string{"Yangon"}, domain.MetricGrossIncome))
	require.NoError(t, err)

	city, ok := d.Table(domain.TableCity)
	require.True(t, ok)
	require.Len(t, city.Rows, 1)
	assert.Equal(t, []string{"Yangon"}, city.Rows[0].Keys)
	assert.Equal(t, domain.ReductionSum, city.Reduction)
	assert.Equal(t, 2, city.Rows[0].Count)
	assertDecimal(t, "30", city.Rows[0].Value)
}

func TestSummarize_RatingIsAveraged(t *testing.T) {
	d, err := Summarize(fixture(), domain.NewSelection([]string{"Yangon"}, domain.MetricRating))
	require.NoError(t, err)

	city, ok := d.Table(domain.TableCity)
	require.True(t, ok)
	require.Len(t, city.Rows, 1)
	assert.Equal(t, domain.ReductionMean, city.Reduction)
	assertDecimal(t, "5", city.Rows[0].Value)
}

func TestSummarize_CityRowsMatchSelection(t *testing.T) {
	tests := []struct {
		name     string
		cities   []string
		expected [][]string
	}{
		{
			name:     "single city",
			cities:   []string{"Mandalay"},
			expected: [][]string{{"Mandalay"}},
		},
		{
			name:     "two cities sorted by name",
			cities:   []string{"Yangon", "Mandalay"},
			expected: [][]string{{"Mandalay"}, {"Yangon"}},
		},
		{
			name:     "city absent from data is not reported",
			cities:   []string{"Yangon", "Bago"},
			expected: [][]string{{"Yangon"}},
		},
		{
			name:     "all cities",
			cities:   []string{"Yangon", "Mandalay", "Naypyitaw"},
			expected: [][]string{{"Mandalay"}, {"Naypyitaw"}, {"Yangon"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Summarize(fixture(), domain.NewSelection(tt.cities, domain.MetricGrossIncome))
			require.NoError(t, err)
			city, _ := d.Table(domain.TableCity)
			assert.Equal(t, tt.expected, rowKeys(city))
		})
	}
}

func TestSummarize_EmptySelection(t *testing.T) {
	for _, metric := range domain.Metrics() {
		d, err := Summarize(fixture(), domain.NewSelection(nil, metric))
		require.NoError(t, err)
		require.Len(t, d.Tables, len(domain.Tables()))
		for _, table := range d.Tables {
			assert.Empty(t, table.Rows, "table %s", table.Name)
			assert.NotNil(t, table.Rows)
		}
		assert.Equal(t, 0, d.Totals.Sales)
		assert.True(t, d.Totals.GrossIncome.IsZero())
	}
}

func TestSummarize_UnknownMetric(t *testing.T) {
	_, err := Summarize(fixture(), domain.Selection{Cities: []string{"Yangon"}, Metric: "profit"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownMetric))
}

func TestSummarize_Idempotent(t *testing.T) {
	sel := domain.NewSelection([]string{"Naypyitaw", "Yangon"}, domain.MetricRating)
	first, err := Summarize(fixture(), sel)
	require.NoError(t, err)
	second, err := Summarize(fixture(), sel)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarize_MetricChangeKeepsCategories(t *testing.T) {
	cities := []string{"Naypyitaw", "Mandalay"}
	income, err := Summarize(fixture(), domain.NewSelection(cities, domain.MetricGrossIncome))
	require.NoError(t, err)
	rating, err := Summarize(fixture(), domain.NewSelection(cities, domain.MetricRating))
	require.NoError(t, err)

	for i := range income.Tables {
		assert.Equal(t, rowKeys(income.Tables[i]), rowKeys(rating.Tables[i]), "table %s", income.Tables[i].Name)
	}
	assert.Equal(t, income.Totals, rating.Totals)
}

func TestSummarize_PairTables(t *testing.T) {
	d, err := Summarize(fixture(), domain.NewSelection([]string{"Naypyitaw", "Mandalay"}, domain.MetricGrossIncome))
	require.NoError(t, err)

	gender, ok := d.Table(domain.TableGenderCity)
	require.True(t, ok)
	assert.Equal(t, [][]string{
		{"Female", "Mandalay"},
		{"Female", "Naypyitaw"},
		{"Male", "Naypyitaw"},
	}, rowKeys(gender))
	assertDecimal(t, "6.75", gender.Rows[1].Value)
	assert.Equal(t, "Female / Naypyitaw", gender.Rows[1].Label())

	lines, ok := d.Table(domain.TableProductLineCity)
	require.True(t, ok)
	assert.Equal(t, [][]string{
		{"Food and beverages", "Naypyitaw"},
		{"Health and beauty", "Mandalay"},
		{"Home and lifestyle", "Naypyitaw"},
	}, rowKeys(lines))
	assertDecimal(t, "5", lines.Rows[0].Value)
}

func TestSummarize_DateAndPayment(t *testing.T) {
	d, err := Summarize(fixture(), domain.NewSelection([]string{"Yangon", "Mandalay", "Naypyitaw"}, domain.MetricGrossIncome))
	require.NoError(t, err)

	dates, _ := d.Table(domain.TableDate)
	assert.Equal(t, [][]string{{"2019-01-05"}, {"2019-01-06"}, {"2019-01-07"}, {"2019-01-08"}}, rowKeys(dates))
	assertDecimal(t, "17.5", dates.Rows[0].Value)

	payments, _ := d.Table(domain.TablePayment)
	assert.Equal(t, [][]string{{"Cash"}, {"Credit card"}, {"Ewallet"}}, rowKeys(payments))
	assertDecimal(t, "24.25", payments.Rows[0].Value)
	assert.Equal(t, 4, payments.Rows[0].Count)

	assert.Equal(t, 6, d.Totals.Sales)
	assertDecimal(t, "47.5", d.Totals.GrossIncome)
	assertDecimal(t, "950", d.Totals.Costs)
	assertDecimal(t, "997.5", d.Totals.Revenue)
}

func TestSummarizeTable(t *testing.T) {
	spec, err := domain.LookupTable("payment")
	require.NoError(t, err)

	table, err := SummarizeTable(fixture(), domain.NewSelection([]string{"Naypyitaw"}, domain.MetricRating), spec)
	require.NoError(t, err)
	assert.Equal(t, domain.TablePayment, table.Name)
	require.Len(t, table.Rows, 2)
	assertDecimal(t, "6.5", table.Rows[0].Value)
	assertDecimal(t, "7", table.Rows[1].Value)

	_, err = domain.LookupTable("region")
	assert.True(t, errors.Is(err, domain.ErrUnknownTable))
}

func TestCities_OrderedByFrequency(t *testing.T) {
	assert.Equal(t, []string{"Naypyitaw", "Yangon", "Mandalay"}, Cities(fixture()))
	assert.Empty(t, Cities(nil))
}

func TestFilter_IgnoresDuplicateSelection(t *testing.T) {
	sel := domain.NewSelection([]string{"Yangon", " Yangon ", ""}, domain.MetricGrossIncome)
	assert.Equal(t, []string{"Yangon"}, sel.Cities)
	assert.Len(t, Filter(fixture(), sel), 2)
}
