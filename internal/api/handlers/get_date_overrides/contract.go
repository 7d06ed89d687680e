package get_date_overrides

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	ListOverrides(ctx context.Context, hostID int64, from, to *string) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
