package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStats struct {
	RecordsCount int64
	FirstSale    *time.Time
	LastSale     *time.Time
}

type SaleRecord struct {
	InvoiceID    string
	Branch       string
	City         string
	CustomerType string
	Gender       string
	ProductLine  string
	Payment      string
	UnitPrice    decimal.Decimal
	Quantity     int
	Total        decimal.Decimal
	COGS         decimal.Decimal
	GrossIncome  decimal.Decimal
	Rating       float64
	Date         time.Time
}

// AmountScale is how many decimal places the sales table keeps for amounts
// and ratings. Finer input is rejected on load.
const AmountScale = 10

// SummaryRow is one GROUP BY result. Sum is the metric total as text; means
// are taken by the caller from Sum and Count.
type SummaryRow struct {
	Keys  []string
	Sum   string
	Count int64
}

type TotalsRow struct {
	Revenue     string
	Costs       string
	GrossIncome string
	Sales       int64
}
