package set_rule

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

type CalendarService interface {
	SetRule(ctx context.Context, salonID int64, req *models.SetRuleRequest) (*models.SetRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
