package sales

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/shopspring/decimal"
)

// Store supports ingestion (Add, Reset) and the grouped reads behind the
// dashboard. Writes join the transaction carried by ctx when there is one.
type Store interface {
	Add(ctx context.Context, records []store.SaleRecord) error
	Reset(ctx context.Context) error
	List(ctx context.Context) ([]store.SaleRecord, error)
	Cities(ctx context.Context) ([]string, error)
	Summarize(ctx context.Context, spec domain.TableSpec, metric domain.Metric, cities []string) ([]store.SummaryRow, error)
	Totals(ctx context.Context, cities []string) (store.TotalsRow, error)
	GetStats(ctx context.Context) (*store.SaleStats, error)
}

type salesStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &salesStore{
		db: db,
	}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *salesStore) conn(ctx context.Context) execer {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

const insertSale = `
	INSERT INTO sales (
		invoice_id, branch, city, customer_type, gender, product_line, payment,
		unit_price, quantity, total, cogs, gross_income, rating, sale_date
	) VALUES (
		?, ?, ?, ?, ?, ?, ?,
		CAST(? AS DECIMAL(38, 10)), ?, CAST(? AS DECIMAL(38, 10)), CAST(? AS DECIMAL(38, 10)),
		CAST(? AS DECIMAL(38, 10)), ?, CAST(? AS DATE)
	)`

func (s *salesStore) Add(ctx context.Context, records []store.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := s.conn(ctx).PrepareContext(ctx, insertSale)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.InvoiceID,
			r.Branch,
			r.City,
			r.CustomerType,
			r.Gender,
			r.ProductLine,
			r.Payment,
			r.UnitPrice.String(),
			r.Quantity,
			r.Total.String(),
			r.COGS.String(),
			r.GrossIncome.String(),
			r.Rating,
			r.Date.Format(domain.DateLayout),
		)
		if err != nil {
			return fmt.Errorf("insert sale %s: %w", r.InvoiceID, err)
		}
	}

	return nil
}

func (s *salesStore) Reset(ctx context.Context) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("reset sales: %w", err)
	}
	return nil
}

func (s *salesStore) List(ctx context.Context) ([]store.SaleRecord, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT
			invoice_id, branch, city, customer_type, gender, product_line, payment,
			CAST(unit_price AS VARCHAR), quantity, CAST(total AS VARCHAR), CAST(cogs AS VARCHAR),
			CAST(gross_income AS VARCHAR), rating, sale_date
		FROM sales
		ORDER BY sale_date, invoice_id`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	records := make([]store.SaleRecord, 0)
	for rows.Next() {
		var (
			r                                   store.SaleRecord
			unitPrice, total, cogs, grossIncome string
		)
		err := rows.Scan(
			&r.InvoiceID, &r.Branch, &r.City, &r.CustomerType, &r.Gender, &r.ProductLine, &r.Payment,
			&unitPrice, &r.Quantity, &total, &cogs, &grossIncome, &r.Rating, &r.Date,
		)
		if err != nil {
			return nil, err
		}
		if r.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("sale %s unit price: %w", r.InvoiceID, err)
		}
		if r.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("sale %s total: %w", r.InvoiceID, err)
		}
		if r.COGS, err = decimal.NewFromString(cogs); err != nil {
			return nil, fmt.Errorf("sale %s cogs: %w", r.InvoiceID, err)
		}
		if r.GrossIncome, err = decimal.NewFromString(grossIncome); err != nil {
			return nil, fmt.Errorf("sale %s gross income: %w", r.InvoiceID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *salesStore) Cities(ctx context.Context) ([]string, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT city
		FROM sales
		GROUP BY city
		ORDER BY COUNT(*) DESC, city`)
	if err != nil {
		return nil, fmt.Errorf("query cities: %w", err)
	}
	defer rows.Close()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

func (s *salesStore) Summarize(
	ctx context.Context,
	spec domain.TableSpec,
	metric domain.Metric,
	cities []string,
) ([]store.SummaryRow, error) {
	if len(cities) == 0 {
		return []store.SummaryRow{}, nil
	}

	aggregate, err := aggregateExpr(metric)
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0, len(spec.Dimensions))
	for _, d := range spec.Dimensions {
		col, err := dimensionExpr(d)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	keyList := strings.Join(columns, ", ")

	query := fmt.Sprintf(`
		SELECT %s, CAST(%s AS VARCHAR) AS total, COUNT(*) AS sales
		FROM sales
		WHERE city IN (%s)
		GROUP BY %s
		ORDER BY %s`, keyList, aggregate, placeholders(len(cities)), keyList, keyList)

	rows, err := s.conn(ctx).QueryContext(ctx, query, toInterfaceSlice(cities)...)
	if err != nil {
		return nil, fmt.Errorf("query %s summary: %w", spec.Name, err)
	}
	defer rows.Close()

	result := make([]store.SummaryRow, 0)
	for rows.Next() {
		row := store.SummaryRow{Keys: make([]string, len(columns))}
		dest := make([]any, 0, len(columns)+2)
		for i := range row.Keys {
			dest = append(dest, &row.Keys[i])
		}
		dest = append(dest, &row.Sum, &row.Count)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *salesStore) Totals(ctx context.Context, cities []string) (store.TotalsRow, error) {
	if len(cities) == 0 {
		return store.TotalsRow{Revenue: "0", Costs: "0", GrossIncome: "0"}, nil
	}

	query := fmt.Sprintf(`
		SELECT
			CAST(COALESCE(SUM(total), 0) AS VARCHAR),
			CAST(COALESCE(SUM(cogs), 0) AS VARCHAR),
			CAST(COALESCE(SUM(gross_income), 0) AS VARCHAR),
			COUNT(*)
		FROM sales
		WHERE city IN (%s)`, placeholders(len(cities)))

	var t store.TotalsRow
	err := s.conn(ctx).QueryRowContext(ctx, query, toInterfaceSlice(cities)...).
		Scan(&t.Revenue, &t.Costs, &t.GrossIncome, &t.Sales)
	if err != nil {
		return store.TotalsRow{}, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}

func (s *salesStore) GetStats(ctx context.Context) (*store.SaleStats, error) {
	var (
		total       int64
		first, last sql.NullTime
	)
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*), MIN(sale_date), MAX(sale_date) FROM sales`).
		Scan(&total, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("get sales stats: %w", err)
	}

	stats := &store.SaleStats{RecordsCount: total}
	if first.Valid {
		t := first.Time
		stats.FirstSale = &t
	}
	if last.Valid {
		t := last.Time
		stats.LastSale = &t
	}
	return stats, nil
}

func dimensionExpr(d domain.Dimension) (string, error) {
	switch d {
	case domain.DimensionCity:
		return "city", nil
	case domain.DimensionPayment:
		return "payment", nil
	case domain.DimensionGender:
		return "gender", nil
	case domain.DimensionProductLine:
		return "product_line", nil
	case domain.DimensionDate:
		return "CAST(sale_date AS VARCHAR)", nil
	default:
		return "", fmt.Errorf("unsupported dimension: %s", d)
	}
}

// aggregateExpr sums in DECIMAL for both metrics. Means are divided in Go so
// they match the in-memory backend digit for digit.
func aggregateExpr(m domain.Metric) (string, error) {
	switch m {
	case domain.MetricGrossIncome:
		return "SUM(gross_income)", nil
	case domain.MetricRating:
		return "SUM(CAST(rating AS DECIMAL(38, 10)))", nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMetric, m)
	}
}

func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "?"
	}
	return strings.Join(p, ", ")
}

func toInterfaceSlice(ss []string) []interface{} {
	res := make([]interface{}, len(ss))
	for i, s := range ss {
		res[i] = s
	}
	return res
}
