package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Add(ctx context.Context, records []store.SaleRecord) error {
	if duckdb.GetTransaction(ctx) == nil {
		return errors.New("add called outside transaction")
	}
	return m.Called(records).Error(0)
}

func (m *mockStore) Reset(ctx context.Context) error {
	if duckdb.GetTransaction(ctx) == nil {
		return errors.New("reset called outside transaction")
	}
	return m.Called().Error(0)
}

func (m *mockStore) List(ctx context.Context) ([]store.SaleRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]store.SaleRecord), args.Error(1)
}

func (m *mockStore) Cities(ctx context.Context) ([]string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStore) Summarize(context.Context, domain.TableSpec, domain.Metric, []string) ([]store.SummaryRow, error) {
	return nil, nil
}

func (m *mockStore) Totals(context.Context, []string) (store.TotalsRow, error) {
	return store.TotalsRow{}, nil
}

func (m *mockStore) GetStats(ctx context.Context) (*store.SaleStats, error) {
	if duckdb.GetTransaction(ctx) != nil {
		return nil, errors.New("stats read before commit")
	}
	args := m.Called()
	stats, _ := args.Get(0).(*store.SaleStats)
	return stats, args.Error(1)
}

func sample() []store.SaleRecord {
	return []store.SaleRecord{
		{City: "Yangon", GrossIncome: decimal.NewFromInt(10)},
		{City: "Mandalay", GrossIncome: decimal.NewFromInt(20)},
	}
}

func TestRunner_Run(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	st := new(mockStore)
	st.On("Reset").Return(nil)
	st.On("Add", sample()).Return(nil)
	first := time.Date(2019, time.January, 5, 0, 0, 0, 0, time.UTC)
	last := time.Date(2019, time.March, 30, 0, 0, 0, 0, time.UTC)
	st.On("GetStats").Return(&store.SaleStats{RecordsCount: 2, FirstSale: &first, LastSale: &last}, nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	runner := NewRunner(db, st, func(path string) ([]store.SaleRecord, error) {
		assert.Equal(t, "sales.csv", path)
		return sample(), nil
	})

	stats, err := runner.Run(context.Background(), "sales.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.RecordsCount)
	assert.Equal(t, first, *stats.FirstSale)
	assert.Equal(t, last, *stats.LastSale)
	st.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_RollsBackOnInsertFailure(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	st := new(mockStore)
	st.On("Reset").Return(nil)
	st.On("Add", sample()).Return(boom)

	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	runner := NewRunner(db, st, func(string) ([]store.SaleRecord, error) { return sample(), nil })
	_, err = runner.Run(context.Background(), "sales.csv")
	assert.ErrorIs(t, err, boom)
	st.AssertNotCalled(t, "GetStats")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_StatsFailure(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("stats unavailable")
	st := new(mockStore)
	st.On("Reset").Return(nil)
	st.On("Add", sample()).Return(nil)
	st.On("GetStats").Return(nil, boom)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	runner := NewRunner(db, st, func(string) ([]store.SaleRecord, error) { return sample(), nil })
	_, err = runner.Run(context.Background(), "sales.csv")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRunner_LoadFailure(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("no such file")
	runner := NewRunner(db, new(mockStore), func(string) ([]store.SaleRecord, error) { return nil, boom })
	_, err = runner.Run(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
