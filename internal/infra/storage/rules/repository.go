package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	weeklyColumns   = []string{"id", "host_id", "day_of_week", "start_minute", "end_minute", "created_at", "updated_at"}
	overrideColumns = []string{"id", "host_id", "override_date", "mode", "intervals", "created_at", "updated_at"}
)

// intervalJSON формат элемента JSONB колонки date_overrides.intervals
type intervalJSON struct {
	Start types.TimeOfDay `json:"start"`
	End   types.TimeOfDay `json:"end"`
}

// Repository репозиторий недельных правил и исключений по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWeekly возвращает все недельные правила хоста, по дню недели и началу
func (r *Repository) ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(weeklyColumns...).
		From("weekly_rules").
		Where(squirrel.Eq{"host_id": hostID}).
		OrderBy("day_of_week ASC", "start_minute ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyRule, 0)
	for rows.Next() {
		var (
			rule                 domain.WeeklyRule
			day                  int
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&rule.ID, &rule.HostID, &day, &rule.Start, &rule.End, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListWeekly - scan row: %v", ErrScanRow, err)
		}
		rule.DayOfWeek = time.Weekday(day)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		result = append(result, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWeekly - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ReplaceWeeklyDay заменяет окна дня недели на переданные (уже слитые) интервалы.
// Удаление и вставка должны выполняться в одной транзакции, ее открывает вызывающий.
func (r *Repository) ReplaceWeeklyDay(ctx context.Context, hostID int64, day time.Weekday, windows []domain.LocalInterval) ([]*domain.WeeklyRule, error) {
	if _, err := r.DeleteWeeklyDay(ctx, hostID, day); err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert("weekly_rules").
		Columns("host_id", "day_of_week", "start_minute", "end_minute")
	for _, w := range windows {
		insert = insert.Values(hostID, int(day), w.Start, w.End)
	}

	query, args, err := insert.Suffix("RETURNING id, start_minute, end_minute, created_at, updated_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyDay - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyDay - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyRule, 0, len(windows))
	for rows.Next() {
		rule := domain.WeeklyRule{HostID: hostID, DayOfWeek: day}
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&rule.ID, &rule.Start, &rule.End, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ReplaceWeeklyDay - scan row: %v", ErrScanRow, err)
		}
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		result = append(result, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceWeeklyDay - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DeleteWeeklyDay удаляет все окна дня недели. Возвращает количество удаленных правил.
func (r *Repository) DeleteWeeklyDay(ctx context.Context, hostID int64, day time.Weekday) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("weekly_rules").
		Where(squirrel.Eq{"host_id": hostID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteWeeklyDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteWeeklyDay - execute delete: %w", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteWeeklyDay - get rows affected: %v", ErrExecQuery, err)
	}
	return n, nil
}

// UpsertOverride сохраняет исключение на дату. Повторная запись перезаписывает прежнюю.
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.DateOverride) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	intervals, err := encodeIntervals(override.Intervals)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("date_overrides").
		Columns("host_id", "override_date", "mode", "intervals").
		Values(override.HostID, override.Date, override.Mode, intervals).
		Suffix("ON CONFLICT (host_id, override_date) DO UPDATE SET mode = EXCLUDED.mode, intervals = EXCLUDED.intervals, updated_at = NOW()").
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&override.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute insert: %w", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// GetOverride получает исключение хоста на дату
func (r *Repository) GetOverride(ctx context.Context, hostID int64, date types.Date) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From("date_overrides").
		Where(squirrel.Eq{"host_id": hostID, "override_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %w", ErrScanRow, err)
	}

	return override, nil
}

// ListOverrides возвращает исключения хоста за период (границы опциональны, включительно)
func (r *Repository) ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(overrideColumns...).
		From("date_overrides").
		Where(squirrel.Eq{"host_id": hostID})
	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"override_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"override_date": *to})
	}

	query, args, err := selectBuilder.OrderBy("override_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.DateOverride, 0)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %w", ErrScanRow, err)
		}
		result = append(result, override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// DeleteOverride удаляет исключение на дату
func (r *Repository) DeleteOverride(ctx context.Context, hostID int64, date types.Date) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_overrides").
		Where(squirrel.Eq{"host_id": hostID, "override_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %w", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.DateOverride, error) {
	var (
		override             domain.DateOverride
		raw                  []byte
		createdAt, updatedAt sql.NullTime
	)
	if err := row.Scan(&override.ID, &override.HostID, &override.Date, &override.Mode, &raw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	intervals, err := decodeIntervals(raw)
	if err != nil {
		return nil, err
	}
	override.Intervals = intervals
	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

// encodeIntervals возвращает строку: []byte lib/pq передал бы как bytea
func encodeIntervals(in []domain.LocalInterval) (string, error) {
	items := make([]intervalJSON, 0, len(in))
	for _, iv := range in {
		items = append(items, intervalJSON{Start: iv.Start, End: iv.End})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncodeIntervals, err)
	}
	return string(data), nil
}

func decodeIntervals(raw []byte) ([]domain.LocalInterval, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []intervalJSON
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeIntervals, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]domain.LocalInterval, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LocalInterval{Start: it.Start, End: it.End})
	}
	return out, nil
}
