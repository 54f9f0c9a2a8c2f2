package get_rule

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

type CalendarService interface {
	GetRule(ctx context.Context, salonID int64, scope domain.RuleScope) (*domain.OperatingRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
