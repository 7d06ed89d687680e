package delete_weekly_rules

import "context"

type RulesService interface {
	DeleteWeeklyRules(ctx context.Context, hostID int64, dayOfWeek int) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
