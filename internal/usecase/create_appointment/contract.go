package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/planner"
)

// CatalogClient интерфейс клиента каталога салонов и услуг
type CatalogClient interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
	GetServices(ctx context.Context, ids []int64) ([]domain.Service, error)
}

// Planner интерфейс планировщика записи
type Planner interface {
	Plan(ctx context.Context, req *planner.Request) (*domain.PlannedAppointment, error)
}

// Booking интерфейс менеджера транзакций бронирования
type Booking interface {
	Reserve(ctx context.Context, planned *domain.PlannedAppointment) (*models.AppointmentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
