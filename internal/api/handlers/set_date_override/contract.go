package set_date_override

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	SetOverride(ctx context.Context, hostID int64, date string, req *models.SetOverrideRequest) (*models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
