package get_availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	Resolve(ctx context.Context, hostID int64, date, timezone string) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
