package rules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RulesRepository интерфейс репозитория правил доступности
type RulesRepository interface {
	ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error)
	ReplaceWeeklyDay(ctx context.Context, hostID int64, day time.Weekday, windows []domain.LocalInterval) ([]*domain.WeeklyRule, error)
	DeleteWeeklyDay(ctx context.Context, hostID int64, day time.Weekday) (int64, error)
	UpsertOverride(ctx context.Context, override *domain.DateOverride) (*domain.DateOverride, error)
	ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error)
	DeleteOverride(ctx context.Context, hostID int64, date types.Date) error
}

// HostLocker блокировка хоста до конца транзакции (общая с журналом бронирований)
type HostLocker interface {
	LockHost(ctx context.Context, hostID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache инвалидация кэша слотов хоста
type SlotCache interface {
	Invalidate(ctx context.Context, hostID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
