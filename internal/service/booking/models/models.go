package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Request модели

// ListAppointmentsRequest запрос на получение списка записей
type ListAppointmentsRequest struct {
	SalonID  *int64     `json:"salonId,omitempty"`
	Customer *string    `json:"customer,omitempty"`
	Status   *string    `json:"status,omitempty"`
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		SalonID:  r.SalonID,
		Customer: r.Customer,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
		Limit:    r.Limit,
		Offset:   r.Offset,
	}

	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		if !status.IsValid() {
			return filter, domain.ErrInvalidInput.Wrap("unknown status %q", *r.Status)
		}
		filter.Status = &status
	}

	if r.Limit < 0 || r.Offset < 0 {
		return filter, domain.ErrInvalidInput.Wrap("limit and offset must not be negative")
	}

	if r.DateFrom != nil && r.DateTo != nil && r.DateTo.Before(*r.DateFrom) {
		return filter, domain.ErrInvalidInput.Wrap("dateTo is before dateFrom")
	}

	return filter, nil
}

// Response модели

// ServiceResponse снимок услуги в записи
type ServiceResponse struct {
	ServiceID       int64           `json:"serviceId"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
}

// SlotResponse слот записи
type SlotResponse struct {
	ID       int64  `json:"id"`
	TimeFrom string `json:"timeFrom"`
	TimeTo   string `json:"timeTo"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID          int64             `json:"id"`
	SalonID     int64             `json:"salonId"`
	Customer    string            `json:"customer"`
	Comment     *string           `json:"comment,omitempty"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Date        string            `json:"date"`
	TimeFrom    string            `json:"timeFrom"`
	TimeTo      string            `json:"timeTo"`
	Services    []ServiceResponse `json:"services"`
	Slots       []SlotResponse    `json:"slots"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:          a.ID,
		SalonID:     a.SalonID,
		Customer:    a.Customer,
		Comment:     a.Comment,
		Status:      string(a.Status),
		TotalAmount: a.TotalAmount,
		Date:        a.Date.Format(domain.DateFormat),
		TimeFrom:    a.TimeFrom.String(),
		TimeTo:      a.TimeTo.String(),
		Services:    make([]ServiceResponse, 0, len(a.Services)),
		Slots:       make([]SlotResponse, 0, len(a.Slots)),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	for _, s := range a.Services {
		resp.Services = append(resp.Services, ServiceResponse{
			ServiceID:       s.ServiceID,
			Title:           s.Title,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	for _, s := range a.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			ID:       s.ID,
			TimeFrom: s.TimeFrom.String(),
			TimeTo:   s.TimeTo.String(),
		})
	}

	return resp
}

// FromDomainAppointmentList конвертирует список записей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
