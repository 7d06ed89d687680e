package get_event_type

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/eventtypes/models"
)

type EventTypeService interface {
	GetByID(ctx context.Context, id int64) (*models.EventTypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
