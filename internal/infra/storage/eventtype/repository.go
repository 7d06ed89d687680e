package eventtype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var eventTypeColumns = []string{
	"id",
	"host_id",
	"title",
	"kind",
	"duration_minutes",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"max_bookings_per_day",
	"timezone",
	"location",
	"location_value",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий типов событий хостов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает тип события
func (r *Repository) Create(ctx context.Context, et *domain.EventType) (*domain.EventType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("event_types").
		Columns(
			"host_id",
			"title",
			"kind",
			"duration_minutes",
			"buffer_before_minutes",
			"buffer_after_minutes",
			"max_bookings_per_day",
			"timezone",
			"location",
			"location_value",
			"is_active",
		).
		Values(
			et.HostID,
			et.Title,
			et.Kind,
			et.Config.DurationMinutes,
			et.Config.BufferBeforeMinutes,
			et.Config.BufferAfterMinutes,
			et.Config.MaxBookingsPerDay,
			et.Config.HostTimezone,
			et.Location,
			et.LocationValue,
			et.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&et.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	et.CreatedAt = createdAt.Time
	et.UpdatedAt = updatedAt.Time

	return et, nil
}

// GetByID получает тип события по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.EventType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(eventTypeColumns...).
		From("event_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	et, err := scanEventType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event type: %w", ErrScanRow, err)
	}

	return et, nil
}

// ListByHost возвращает типы событий хоста. onlyActive отбрасывает выключенные.
func (r *Repository) ListByHost(ctx context.Context, hostID int64, onlyActive bool) ([]*domain.EventType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(eventTypeColumns...).
		From("event_types").
		Where(squirrel.Eq{"host_id": hostID})
	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHost - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHost - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.EventType, 0)
	for rows.Next() {
		et, err := scanEventType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByHost - scan row: %v", ErrScanRow, err)
		}
		result = append(result, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByHost - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Update сохраняет все изменяемые поля типа события.
// Частичное обновление собирает сервис: он читает текущее состояние и применяет патч.
func (r *Repository) Update(ctx context.Context, et *domain.EventType) (*domain.EventType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("event_types").
		Set("title", et.Title).
		Set("kind", et.Kind).
		Set("duration_minutes", et.Config.DurationMinutes).
		Set("buffer_before_minutes", et.Config.BufferBeforeMinutes).
		Set("buffer_after_minutes", et.Config.BufferAfterMinutes).
		Set("max_bookings_per_day", et.Config.MaxBookingsPerDay).
		Set("timezone", et.Config.HostTimezone).
		Set("location", et.Location).
		Set("location_value", et.LocationValue).
		Set("is_active", et.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": et.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	et.UpdatedAt = updatedAt.Time
	return et, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEventType(row rowScanner) (*domain.EventType, error) {
	var (
		et                   domain.EventType
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&et.ID,
		&et.HostID,
		&et.Title,
		&et.Kind,
		&et.Config.DurationMinutes,
		&et.Config.BufferBeforeMinutes,
		&et.Config.BufferAfterMinutes,
		&et.Config.MaxBookingsPerDay,
		&et.Config.HostTimezone,
		&et.Location,
		&et.LocationValue,
		&et.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	et.CreatedAt = createdAt.Time
	et.UpdatedAt = updatedAt.Time
	return &et, nil
}
