package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownTable = errors.New("unknown summary table")

type Dimension string

const (
	DimensionCity        Dimension = "City"
	DimensionPayment     Dimension = "Payment"
	DimensionGender      Dimension = "Gender"
	DimensionProductLine Dimension = "Product line"
	DimensionDate        Dimension = "Date"
)

func (d Dimension) Value(t Transaction) string {
	switch d {
	case DimensionCity:
		return t.City
	case DimensionPayment:
		return t.Payment
	case DimensionGender:
		return t.Gender
	case DimensionProductLine:
		return t.ProductLine
	case DimensionDate:
		return t.Date.Format(DateLayout)
	default:
		return ""
	}
}

type TableName string

const (
	TableCity            TableName = "city"
	TablePayment         TableName = "payment"
	TableGenderCity      TableName = "gender_city"
	TableDate            TableName = "date"
	TableProductLineCity TableName = "product_line_city"
)

// TableSpec describes which columns one summary table groups by.
type TableSpec struct {
	Name       TableName
	Dimensions []Dimension
}

var tables = []TableSpec{
	{Name: TableCity, Dimensions: []Dimension{DimensionCity}},
	{Name: TablePayment, Dimensions: []Dimension{DimensionPayment}},
	{Name: TableGenderCity, Dimensions: []Dimension{DimensionGender, DimensionCity}},
	{Name: TableDate, Dimensions: []Dimension{DimensionDate}},
	{Name: TableProductLineCity, Dimensions: []Dimension{DimensionProductLine, DimensionCity}},
}

// Tables returns the summary tables of the dashboard in display order.
func Tables() []TableSpec {
	out := make([]TableSpec, len(tables))
	copy(out, tables)
	return out
}

func LookupTable(name string) (TableSpec, error) {
	for _, t := range tables {
		if string(t.Name) == name {
			return t, nil
		}
	}
	return TableSpec{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
}

// Selection is the set of checked cities and the chosen metric.
type Selection struct {
	Cities []string
	Metric Metric
}

// NewSelection drops blank and duplicate cities, keeping first-seen order.
func NewSelection(cities []string, metric Metric) Selection {
	seen := make(map[string]struct{}, len(cities))
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return Selection{Cities: out, Metric: metric}
}

func (s Selection) IsEmpty() bool {
	return len(s.Cities) == 0
}

func (s Selection) CitySet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Cities))
	for _, c := range s.Cities {
		set[c] = struct{}{}
	}
	return set
}

type SummaryRow struct {
	Keys  []string
	Value decimal.Decimal
	Count int
}

// Label joins the key parts, e.g. "Female / Yangon".
func (r SummaryRow) Label() string {
	return strings.Join(r.Keys, " / ")
}

type SummaryTable struct {
	Name       TableName
	Dimensions []Dimension
	Metric     Metric
	Reduction  Reduction
	Rows       []SummaryRow
}

// Totals feed the header cards of the dashboard.
type Totals struct {
	Revenue     decimal.Decimal
	Costs       decimal.Decimal
	GrossIncome decimal.Decimal
	Sales       int
}

type Dashboard struct {
	Selection Selection
	Totals    Totals
	Tables    []SummaryTable
}

func (d Dashboard) Table(name TableName) (SummaryTable, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return SummaryTable{}, false
}
