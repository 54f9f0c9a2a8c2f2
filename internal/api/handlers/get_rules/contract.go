package get_rules

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

type CalendarService interface {
	GetRules(ctx context.Context, salonID int64) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
