package rules

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepository(dbmetrics.Wrap(sqlDB, nil)), mock
}

func window(start, end string) domain.LocalInterval {
	return domain.LocalInterval{Start: types.MustTimeOfDay(start), End: types.MustTimeOfDay(end)}
}

func TestListWeekly(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, host_id, day_of_week, start_minute, end_minute, created_at, updated_at FROM weekly_rules WHERE host_id = $1 ORDER BY day_of_week ASC, start_minute ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(weeklyColumns).
			AddRow(int64(1), int64(7), int64(1), int64(540), int64(720), now, now).
			AddRow(int64(2), int64(7), int64(1), int64(780), int64(1020), now, now))

	got, err := repo.ListWeekly(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Monday, got[0].DayOfWeek)
	assert.Equal(t, window("09:00", "12:00"), got[0].Interval())
	assert.Equal(t, window("13:00", "17:00"), got[1].Interval())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWeeklyDay(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_rules WHERE day_of_week = $1 AND host_id = $2")).
		WithArgs(int(time.Monday), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO weekly_rules (host_id,day_of_week,start_minute,end_minute) VALUES ($1,$2,$3,$4),($5,$6,$7,$8) RETURNING")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_minute", "end_minute", "created_at", "updated_at"}).
			AddRow(int64(10), int64(540), int64(720), now, now).
			AddRow(int64(11), int64(780), int64(1080), now, now))

	got, err := repo.ReplaceWeeklyDay(context.Background(), 7, time.Monday,
		[]domain.LocalInterval{window("09:00", "12:00"), window("13:00", "18:00")})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[1].ID)
	assert.Equal(t, window("13:00", "18:00"), got[1].Interval())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWeeklyDay_EmptyOnlyDeletes(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM weekly_rules").WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.ReplaceWeeklyDay(context.Background(), 7, time.Friday, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertOverride(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO date_overrides (host_id,override_date,mode,intervals) VALUES ($1,$2,$3,$4) ON CONFLICT (host_id, override_date) DO UPDATE")).
		WithArgs(int64(7), sqlmock.AnyArg(), "add", `[{"start":"18:00","end":"20:00"}]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	got, err := repo.UpsertOverride(context.Background(), &domain.DateOverride{
		HostID:    7,
		Date:      types.MustDate("2024-06-03"),
		Mode:      domain.OverrideAdd,
		Intervals: []domain.LocalInterval{window("18:00", "20:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOverride(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	date := types.MustDate("2024-06-03")

	mock.ExpectQuery(regexp.QuoteMeta("FROM date_overrides WHERE host_id = $1 AND override_date = $2")).
		WillReturnRows(sqlmock.NewRows(overrideColumns).
			AddRow(int64(3), int64(7), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "replace", []byte(`[]`), now, now))

	got, err := repo.GetOverride(context.Background(), 7, date)
	require.NoError(t, err)
	assert.Equal(t, date, got.Date)
	assert.True(t, got.IsUnavailable())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOverride_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM date_overrides").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOverride(context.Background(), 7, types.MustDate("2024-06-03"))
	assert.ErrorIs(t, err, ErrOverrideNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOverrides_Range(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	from := types.MustDate("2024-06-01")
	to := types.MustDate("2024-06-30")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE host_id = $1 AND override_date >= $2 AND override_date <= $3 ORDER BY override_date ASC")).
		WillReturnRows(sqlmock.NewRows(overrideColumns).
			AddRow(int64(3), int64(7), "2024-06-03", "add", []byte(`[{"start":"09:00","end":"10:00"},{"start":"11:00","end":"12:00"}]`), now, now))

	got, err := repo.ListOverrides(context.Background(), 7, &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []domain.LocalInterval{window("09:00", "10:00"), window("11:00", "12:00")}, got[0].Intervals)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOverrides_BadJSON(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM date_overrides").
		WillReturnRows(sqlmock.NewRows(overrideColumns).
			AddRow(int64(3), int64(7), "2024-06-03", "add", []byte(`{`), now, now))

	_, err := repo.ListOverrides(context.Background(), 7, nil, nil)
	assert.ErrorIs(t, err, ErrEncodeIntervals)
}

func TestDeleteOverride_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM date_overrides").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOverride(context.Background(), 7, types.MustDate("2024-06-03"))
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}
