package delete_date_override

import "context"

type RulesService interface {
	DeleteOverride(ctx context.Context, hostID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
