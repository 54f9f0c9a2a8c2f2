package set_rule

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/salons/{salonId}/rules
// Создает или заменяет правило и сразу генерирует слоты на горизонт
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/rules - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req models.SetRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetRule(r.Context(), salonID, &req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PUT /salons/{id}/rules - Rejected: salon_id=%d, error=%v", salonID, err)
			return
		}
		h.logger.Error("PUT /salons/{id}/rules - Failed to set rule: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /salons/{id}/rules - Rule saved successfully: salon_id=%d, rule_id=%d",
		salonID, result.Rule.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
