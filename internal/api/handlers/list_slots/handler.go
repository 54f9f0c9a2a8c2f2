package list_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	listSlots "github.com/m04kA/SMC-SalonScheduler/internal/usecase/list_slots"
)

const (
	msgMissingSalonID     = "ID салона обязателен"
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidAvailableOn = "некорректное значение available_only, ожидается true или false"
)

type Handler struct {
	useCase ListSlotsUseCase
	logger  Logger
}

func NewHandler(useCase ListSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: salon (required), date_from, date_to (YYYY-MM-DD), available_only (bool)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	salonIDStr := query.Get("salon")
	if salonIDStr == "" {
		h.logger.Warn("GET /slots - Missing salon ID")
		handlers.RespondBadRequest(w, msgMissingSalonID)
		return
	}
	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	req := &listSlots.Request{SalonID: salonID}

	for param, target := range map[string]**time.Time{"date_from": &req.DateFrom, "date_to": &req.DateTo} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid %s: %v", param, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		*target = &date
	}

	if raw := query.Get("available_only"); raw != "" {
		availableOnly, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid available_only: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAvailableOn)
			return
		}
		req.AvailableOnly = availableOnly
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /slots - Rejected: salon_id=%d, error=%v", salonID, err)
			return
		}
		h.logger.Error("GET /slots - Failed to list slots: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /slots - Slots retrieved successfully: salon_id=%d, count=%d", salonID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
