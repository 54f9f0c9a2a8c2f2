package booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	LinkServices(ctx context.Context, appointmentID int64, services []domain.AppointmentService) error
	LinkSlots(ctx context.Context, appointmentID int64, slotIDs []int64) error
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) error
}

// SlotRepository интерфейс хранилища слотов (запись доступности)
type SlotRepository interface {
	Reserve(ctx context.Context, salonID, appointmentID int64, slotIDs []int64) (int64, error)
	ReleaseByAppointment(ctx context.Context, appointmentID int64) (int64, error)
	LockSalonDate(ctx context.Context, salonID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для доменных метрик бронирования
type MetricsRecorder interface {
	RecordReservation(result string)
	RecordRelease(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
