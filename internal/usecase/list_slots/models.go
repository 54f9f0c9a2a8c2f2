package list_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модель запроса на получение слотов салона
type Request struct {
	SalonID       int64      // ID салона
	DateFrom      *time.Time // Начало периода включительно (опционально)
	DateTo        *time.Time // Конец периода включительно (опционально)
	AvailableOnly bool       // Только свободные слоты
}

// Response модель ответа со списком слотов, упорядоченных по (дата, время начала)
type Response struct {
	SalonID int64  `json:"salonId"`
	Slots   []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	TimeFrom      string `json:"timeFrom"`
	TimeTo        string `json:"timeTo"`
	IsAvailable   bool   `json:"isAvailable"`
	AppointmentID *int64 `json:"appointmentId,omitempty"`
}

func fromDomainSlots(salonID int64, slots []domain.Slot) *Response {
	resp := &Response{
		SalonID: salonID,
		Slots:   make([]Slot, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, Slot{
			ID:            s.ID,
			Date:          s.Date.Format(domain.DateFormat),
			TimeFrom:      s.TimeFrom.String(),
			TimeTo:        s.TimeTo.String(),
			IsAvailable:   s.IsAvailable,
			AppointmentID: s.AppointmentID,
		})
	}
	return resp
}
