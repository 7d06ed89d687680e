package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockHost(ctx context.Context, hostID int64) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, reason *string, cancelledAt time.Time) error
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

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider, использующая реальное время
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
