package eventtypes

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// EventTypeRepository интерфейс репозитория типов событий
type EventTypeRepository interface {
	Create(ctx context.Context, et *domain.EventType) (*domain.EventType, error)
	GetByID(ctx context.Context, id int64) (*domain.EventType, error)
	ListByHost(ctx context.Context, hostID int64, onlyActive bool) ([]*domain.EventType, error)
	Update(ctx context.Context, et *domain.EventType) (*domain.EventType, error)
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
