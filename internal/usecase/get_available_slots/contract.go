package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotcache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// EventTypeRepository интерфейс репозитория типов событий
type EventTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.EventType, error)
}

// RulesRepository интерфейс репозитория правил доступности
type RulesRepository interface {
	ListWeekly(ctx context.Context, hostID int64) ([]*domain.WeeklyRule, error)
	ListOverrides(ctx context.Context, hostID int64, from, to *types.Date) ([]*domain.DateOverride, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByHostWithFilter(ctx context.Context, filter domain.HostBookingsFilter) ([]*domain.Booking, error)
}

// SlotCache кэш сгенерированных слотов
type SlotCache interface {
	Generation(ctx context.Context, hostID int64) (int64, error)
	Get(ctx context.Context, gen int64, key slotcache.Key) ([]domain.Slot, bool, error)
	Set(ctx context.Context, gen int64, key slotcache.Key, slots []domain.Slot) error
}

// Metrics метрики генерации слотов
type Metrics interface {
	ObserveSlots(count int)
	ObserveCache(hit bool)
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
