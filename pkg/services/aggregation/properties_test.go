package aggregation

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fakeCities   = []string{"Yangon", "Mandalay", "Naypyitaw"}
	fakePayments = []string{"Cash", "Ewallet", "Credit card"}
	fakeGenders  = []string{"Female", "Male"}
	fakeLines    = []string{
		"Electronic accessories", "Fashion accessories", "Food and beverages",
		"Health and beauty", "Home and lifestyle", "Sports and travel",
	}
)

func fakeSales(seed uint64, n int) []domain.Transaction {
	faker := gofakeit.New(seed)
	records := make([]domain.Transaction, 0, n)
	for range n {
		income := decimal.NewFromFloat(faker.Float64Range(0.5, 50)).Round(4)
		records = append(records, domain.Transaction{
			City:        faker.RandomString(fakeCities),
			Payment:     faker.RandomString(fakePayments),
			Gender:      faker.RandomString(fakeGenders),
			ProductLine: faker.RandomString(fakeLines),
			Date:        day(faker.Number(1, 31)),
			GrossIncome: income,
			Total:       income.Mul(decimal.NewFromInt(21)),
			COGS:        income.Mul(decimal.NewFromInt(20)),
			Rating:      float64(faker.Number(40, 100)) / 10,
		})
	}
	return records
}

func TestSummarize_GeneratedSales(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		records := fakeSales(seed, 200)
		faker := gofakeit.New(seed)
		picked := fakeCities[:faker.Number(1, len(fakeCities))]

		income, err := Summarize(records, domain.NewSelection(picked, domain.MetricGrossIncome))
		require.NoError(t, err)
		rating, err := Summarize(records, domain.NewSelection(picked, domain.MetricRating))
		require.NoError(t, err)

		again, err := Summarize(records, domain.NewSelection(picked, domain.MetricGrossIncome))
		require.NoError(t, err)
		assert.Equal(t, income, again, "seed %d", seed)

		allowed := domain.NewSelection(picked, domain.MetricGrossIncome).CitySet()
		for i, table := range income.Tables {
			require.Len(t, rating.Tables[i].Rows, len(table.Rows), "seed %d table %s", seed, table.Name)

			var count int
			for j, row := range table.Rows {
				assert.Equal(t, row.Keys, rating.Tables[i].Rows[j].Keys)
				count += row.Count

				for k, dim := range table.Dimensions {
					if dim == domain.DimensionCity {
						_, ok := allowed[row.Keys[k]]
						assert.True(t, ok, "seed %d: %s not selected", seed, row.Keys[k])
					}
				}
				if j > 0 {
					assert.True(t, lessKeys(table.Rows[j-1].Keys, row.Keys), "rows out of order")
				}
			}
			assert.Equal(t, income.Totals.Sales, count, "seed %d table %s", seed, table.Name)
		}

		total := decimal.Zero
		for _, row := range income.Tables[0].Rows {
			total = total.Add(row.Value)
		}
		assert.True(t, income.Totals.GrossIncome.Equal(total), "seed %d", seed)
	}
}
