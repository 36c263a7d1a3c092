package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

const (
	colInvoiceID    = "invoice id"
	colBranch       = "branch"
	colCity         = "city"
	colCustomerType = "customer type"
	colGender       = "gender"
	colProductLine  = "product line"
	colUnitPrice    = "unit price"
	colQuantity     = "quantity"
	colTotal        = "total"
	colDate         = "date"
	colPayment      = "payment"
	colCOGS         = "cogs"
	colGrossIncome  = "gross income"
	colRating       = "rating"
)

var requiredColumns = []string{colCity, colPayment, colGender, colProductLine, colDate, colGrossIncome, colRating}

// The supermarket sales export writes dates as M/D/YYYY.
var dateLayouts = []string{"1/2/2006", "2006-01-02"}

var ErrMissingColumn = errors.New("missing required column")

// LoadFile reads the sales CSV at path.
func LoadFile(path string) ([]store.SaleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sales file: %w", err)
	}
	defer f.Close()

	records, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return records, nil
}

// Load parses sales rows. Columns are matched by header name, case-insensitive.
func Load(r io.Reader) ([]store.SaleRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var records []store.SaleRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, index map[string]int) (store.SaleRecord, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := store.SaleRecord{
		InvoiceID:    get(colInvoiceID),
		Branch:       get(colBranch),
		City:         get(colCity),
		CustomerType: get(colCustomerType),
		Gender:       get(colGender),
		ProductLine:  get(colProductLine),
		Payment:      get(colPayment),
	}

	var err error
	if rec.Date, err = parseDate(get(colDate)); err != nil {
		return rec, err
	}
	if rec.GrossIncome, err = parseAmount(colGrossIncome, get(colGrossIncome), true); err != nil {
		return rec, err
	}
	if rec.Rating, err = parseRating(get(colRating)); err != nil {
		return rec, err
	}
	if rec.UnitPrice, err = parseAmount(colUnitPrice, get(colUnitPrice), false); err != nil {
		return rec, err
	}
	if rec.Total, err = parseAmount(colTotal, get(colTotal), false); err != nil {
		return rec, err
	}
	if rec.COGS, err = parseAmount(colCOGS, get(colCOGS), false); err != nil {
		return rec, err
	}
	if q := get(colQuantity); q != "" {
		if rec.Quantity, err = strconv.Atoi(q); err != nil {
			return rec, fmt.Errorf("invalid %s %q: %w", colQuantity, q, err)
		}
	}

	return rec, nil
}

// parseRating accepts finite numbers only; ParseFloat alone lets NaN and Inf
// through.
func parseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", colRating, s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", colRating, s)
	}
	if d, err := decimal.NewFromString(s); err == nil && tooPrecise(d) {
		return 0, fmt.Errorf("invalid %s %q: more than %d decimal places", colRating, s, store.AmountScale)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", colDate, s)
}

func parseAmount(col, s string, required bool) (decimal.Decimal, error) {
	if s == "" && !required {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", col, s, err)
	}
	if tooPrecise(d) {
		return decimal.Zero, fmt.Errorf("invalid %s %q: more than %d decimal places", col, s, store.AmountScale)
	}
	return d, nil
}

func tooPrecise(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(store.AmountScale))
}
