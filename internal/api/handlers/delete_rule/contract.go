package delete_rule

import "context"

type CalendarService interface {
	DeleteRule(ctx context.Context, salonID, ruleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
