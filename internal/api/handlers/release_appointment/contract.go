package release_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
)

type AppointmentService interface {
	Release(ctx context.Context, id int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
