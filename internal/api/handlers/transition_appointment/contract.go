package transition_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
)

// TransitionFunc переводит запись в следующий статус (booking.Service.Confirm или Complete)
type TransitionFunc func(ctx context.Context, id int64) (*models.AppointmentResponse, error)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
