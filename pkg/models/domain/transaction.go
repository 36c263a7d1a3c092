package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Transaction is one sale of the dataset. Loaded once and never mutated.
type Transaction struct {
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
