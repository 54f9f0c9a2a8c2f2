package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusFinished  AppointmentStatus = "finished"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s AppointmentStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Pending -> Confirmed -> Finished, Pending|Confirmed -> Cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusFinished || next == StatusCancelled
	default:
		return false
	}
}

// AllowedSources returns statuses from which next is reachable
func AllowedSources(next AppointmentStatus) []AppointmentStatus {
	var sources []AppointmentStatus
	for _, s := range AllStatuses {
		if s.CanTransitionTo(next) {
			sources = append(sources, s)
		}
	}
	return sources
}

// AppointmentService is a service snapshot stored with the appointment
type AppointmentService struct {
	ServiceID       int64
	Title           string
	Price           decimal.Decimal
	DurationMinutes int
}

// Appointment represents a customer's booking of one or more services
// over a contiguous run of slots on one date
type Appointment struct {
	ID          int64
	SalonID     int64
	Customer    string
	Comment     *string
	Status      AppointmentStatus
	TotalAmount decimal.Decimal

	// Denormalized from the owned slots
	Date     time.Time
	TimeFrom types.TimeString
	TimeTo   types.TimeString

	Services []AppointmentService
	Slots    []Slot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the appointment owns its slots
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// ValidateTransition returns ErrInvalidTransition if next is not reachable
func (a *Appointment) ValidateTransition(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return ErrInvalidTransition.Wrap("appointment %d: %s -> %s", a.ID, a.Status, next)
	}
	return nil
}

// SlotIDs returns ids of the owned slots in order
func (a *Appointment) SlotIDs() []int64 {
	ids := make([]int64, 0, len(a.Slots))
	for _, s := range a.Slots {
		ids = append(ids, s.ID)
	}
	return ids
}

// AppointmentFilter фильтр для получения списка записей
type AppointmentFilter struct {
	SalonID  *int64             // Фильтр по салону (опционально)
	Customer *string            // Фильтр по клиенту (опционально)
	Status   *AppointmentStatus // Фильтр по статусу (опционально)
	DateFrom *time.Time         // Начало периода (опционально)
	DateTo   *time.Time         // Конец периода (опционально)
	Limit    int
	Offset   int
}
