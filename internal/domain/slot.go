package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Slot represents a materialized fixed-length time slot of a salon
type Slot struct {
	ID          int64
	SalonID     int64
	Date        time.Time
	TimeFrom    types.TimeString
	TimeTo      types.TimeString
	IsAvailable bool

	// AppointmentID references the active owner of the slot, nil when free.
	// Non-owning: the appointment is the source of truth.
	AppointmentID *int64

	CreatedAt time.Time
}

// DurationMinutes returns the slot length in minutes
func (s *Slot) DurationMinutes() int {
	d, err := s.TimeFrom.MinutesUntil(s.TimeTo)
	if err != nil {
		return 0
	}
	return d
}

// SameBounds returns true if both slots cover exactly the same interval
func (s *Slot) SameBounds(other *Slot) bool {
	return s.SalonID == other.SalonID &&
		SameDate(s.Date, other.Date) &&
		s.TimeFrom.Equal(other.TimeFrom) &&
		s.TimeTo.Equal(other.TimeTo)
}

// Overlaps returns true if the slots intersect on the same salon and date
func (s *Slot) Overlaps(other *Slot) bool {
	if s.SalonID != other.SalonID || !SameDate(s.Date, other.Date) {
		return false
	}
	return s.TimeFrom.IsBefore(other.TimeTo) && other.TimeFrom.IsBefore(s.TimeTo)
}

// SortSlots orders slots by (date, time_from)
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !SameDate(slots[i].Date, slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].TimeFrom.IsBefore(slots[j].TimeFrom)
	})
}

// SlotFilter фильтр для получения слотов
type SlotFilter struct {
	SalonID       int64      // Обязательный параметр
	DateFrom      *time.Time // Начало периода включительно (опционально)
	DateTo        *time.Time // Конец периода включительно (опционально)
	AvailableOnly bool       // Только свободные слоты
}
