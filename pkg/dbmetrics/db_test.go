package dbmetrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	mu           sync.Mutex
	queries      map[string]int
	errors       int
	transactions []string
	poolReports  int
}

func newFakeCollector() *fakeCollector {
	return &fakeCollector{queries: make(map[string]int)}
}

func (c *fakeCollector) ObserveQuery(operation string, _ time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries[operation]++
	if err != nil {
		c.errors++
	}
}

func (c *fakeCollector) ObserveTransaction(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transactions = append(c.transactions, outcome)
}

func (c *fakeCollector) SetPoolStats(_, _, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poolReports++
}

func TestDB_ObservesQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	collector := newFakeCollector()
	db := Wrap(sqlDB, collector)
	ctx := context.Background()

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id FROM bookings").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM weekly_rules").WillReturnError(errors.New("boom"))

	_, err = db.ExecContext(ctx, "UPDATE bookings SET status = $1", "cancelled")
	require.NoError(t, err)

	rows, err := db.QueryContext(ctx, "SELECT id FROM bookings")
	require.NoError(t, err)
	rows.Close()

	_, err = db.ExecContext(ctx, "DELETE FROM weekly_rules")
	require.Error(t, err)

	assert.Equal(t, 1, collector.queries["update"])
	assert.Equal(t, 1, collector.queries["select"])
	assert.Equal(t, 1, collector.queries["delete"])
	assert.Equal(t, 1, collector.errors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_TransactionOutcomes(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	collector := newFakeCollector()
	db := Wrap(sqlDB, collector)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, "INSERT INTO bookings (id) VALUES ($1)", 1)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, []string{"commit", "rollback"}, collector.transactions)
	assert.Equal(t, 1, collector.queries["insert"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_NilCollector(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, nil)
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = db.ExecContext(context.Background(), "UPDATE bookings SET status = 'x'")
	assert.NoError(t, err)
}

func TestGetExecutor(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, nil)
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))

	mock.ExpectBegin()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", Operation("  SELECT 1"))
	assert.Equal(t, "insert", Operation("insert into x values (1)"))
	assert.Equal(t, "select", Operation("WITH a AS (SELECT 1) SELECT * FROM a"))
	assert.Equal(t, "other", Operation("VACUUM bookings"))
	assert.Equal(t, "other", Operation(""))
}

func TestWrapWithDefault_ReportsPoolStats(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	collector := newFakeCollector()
	stop := make(chan struct{})
	WrapWithDefault(sqlDB, collector, stop)

	assert.Eventually(t, func() bool {
		collector.mu.Lock()
		defer collector.mu.Unlock()
		return collector.poolReports > 0
	}, time.Second, 10*time.Millisecond)
	close(stop)
}
