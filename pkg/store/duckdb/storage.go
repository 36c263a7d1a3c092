package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SalesTableSchema = `
	CREATE TABLE IF NOT EXISTS sales (
		invoice_id VARCHAR,
		branch VARCHAR,
		city VARCHAR NOT NULL,
		customer_type VARCHAR,
		gender VARCHAR NOT NULL,
		product_line VARCHAR NOT NULL,
		payment VARCHAR NOT NULL,
		unit_price DECIMAL(38, 10),
		quantity INTEGER,
		total DECIMAL(38, 10),
		cogs DECIMAL(38, 10),
		gross_income DECIMAL(38, 10) NOT NULL,
		rating DOUBLE NOT NULL,
		sale_date DATE NOT NULL
	);
`

const SalesCityIndex = `CREATE INDEX IF NOT EXISTS sales_city_idx ON sales (city);`

var bootQueries = []string{
	SalesTableSchema,
	SalesCityIndex,
}

type Settings struct {
	// DbPath of the database file; empty opens an in-memory database.
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
