package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Metric is the numeric column being summarized.
type Metric string

const (
	MetricGrossIncome Metric = "gross income"
	MetricRating      Metric = "Rating"
)

type Reduction string

const (
	ReductionSum  Reduction = "sum"
	ReductionMean Reduction = "mean"
)

// Apply reduces a group total over count rows.
func (r Reduction) Apply(sum decimal.Decimal, count int) decimal.Decimal {
	if r == ReductionMean && count > 0 {
		return sum.Div(decimal.NewFromInt(int64(count)))
	}
	return sum
}

func Metrics() []Metric {
	return []Metric{MetricGrossIncome, MetricRating}
}

// ParseMetric accepts the column name or its slug, case-insensitive.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gross income", "gross_income":
		return MetricGrossIncome, nil
	case "rating":
		return MetricRating, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

func (m Metric) Valid() bool {
	return m == MetricGrossIncome || m == MetricRating
}

// Slug is the identifier used in query strings and label files.
func (m Metric) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(m)), " ", "_")
}

// Reduction is sum for gross income and arithmetic mean for Rating.
func (m Metric) Reduction() Reduction {
	if m == MetricGrossIncome {
		return ReductionSum
	}
	return ReductionMean
}

func (m Metric) Value(t Transaction) decimal.Decimal {
	if m == MetricGrossIncome {
		return t.GrossIncome
	}
	return decimal.NewFromFloat(t.Rating)
}
