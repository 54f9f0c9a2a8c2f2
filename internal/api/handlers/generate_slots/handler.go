package generate_slots

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
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

// Handle POST /api/v1/salons/{salonId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("POST /salons/{id}/slots/generate - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	result, err := h.service.Regenerate(r.Context(), salonID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /salons/{id}/slots/generate - Rejected: salon_id=%d, error=%v", salonID, err)
			return
		}
		h.logger.Error("POST /salons/{id}/slots/generate - Failed: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /salons/{id}/slots/generate - Generated: salon_id=%d, created=%d, conflicts=%d",
		salonID, result.SlotsCreated, len(result.Conflicts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
