package delete_rule

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidRuleID  = "некорректный ID правила"
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

// Handle DELETE /api/v1/salons/{salonId}/rules/{ruleId}
// Уже сгенерированные слоты не удаляются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("DELETE /salons/{id}/rules/{id} - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("DELETE /salons/{id}/rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.DeleteRule(r.Context(), salonID, ruleID); err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("DELETE /salons/{id}/rules/{id} - Rejected: salon_id=%d, rule_id=%d, error=%v",
				salonID, ruleID, err)
			return
		}
		h.logger.Error("DELETE /salons/{id}/rules/{id} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /salons/{id}/rules/{id} - Rule deleted: salon_id=%d, rule_id=%d", salonID, ruleID)
	w.WriteHeader(http.StatusNoContent)
}
