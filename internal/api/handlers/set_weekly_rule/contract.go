package set_weekly_rule

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	SetWeeklyRule(ctx context.Context, hostID int64, req *models.SetWeeklyRuleRequest) (*models.WeeklyRulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
