package get_weekly_rules

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	ListWeeklyRules(ctx context.Context, hostID int64) (*models.WeeklyRulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
