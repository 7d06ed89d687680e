package reschedule_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockHost(ctx context.Context, hostID int64) error
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error)
	MarkRescheduled(ctx context.Context, id uuid.UUID) error
}

// EventTypeRepository интерфейс репозитория типов событий
type EventTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.EventType, error)
}

// RulesRepository интерфейс репозитория правил доступности
type RulesRepository interface {
	ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error)
	ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache инвалидация кэша слотов хоста
type SlotCache interface {
	Invalidate(ctx context.Context, hostID int64) error
}

// EventPublisher публикация событий журнала бронирований
type EventPublisher interface {
	PublishBooking(ctx context.Context, eventType domain.BookingEventType, b *domain.Booking) error
}

// Metrics метрики журнала бронирований
type Metrics interface {
	ObserveLedger(operation, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
