package list_appointments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPaging  = "некорректные параметры limit/offset"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: salon, customer, status, date_from, date_to (YYYY-MM-DD), limit, offset (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.ListAppointmentsRequest{}

	if raw := query.Get("salon"); raw != "" {
		salonID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid salon ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSalonID)
			return
		}
		req.SalonID = &salonID
	}

	if customer := query.Get("customer"); customer != "" {
		req.Customer = &customer
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	var err error
	if req.DateFrom, err = parseDate(query.Get("date_from")); err != nil {
		h.logger.Warn("GET /appointments - Invalid date_from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if req.DateTo, err = parseDate(query.Get("date_to")); err != nil {
		h.logger.Warn("GET /appointments - Invalid date_to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if req.Limit, err = parseInt(query.Get("limit")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	if req.Offset, err = parseInt(query.Get("offset")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /appointments - Rejected: %v", err)
			return
		}
		h.logger.Error("GET /appointments - Failed to list appointments: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: count=%d", len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
