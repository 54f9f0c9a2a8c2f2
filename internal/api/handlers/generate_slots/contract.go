package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

type CalendarService interface {
	Regenerate(ctx context.Context, salonID int64) (*models.GenerationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
