package transition_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	action     string
	transition TransitionFunc
	logger     Logger
}

// NewHandler создает handler перехода, action - последний сегмент пути (confirm, complete)
func NewHandler(action string, transition TransitionFunc, logger Logger) *Handler {
	return &Handler{
		action:     action,
		transition: transition,
		logger:     logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/{action}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/%s - Invalid appointment ID: %v", h.action, err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.transition(r.Context(), appointmentID)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("PATCH /appointments/{id}/%s - Rejected: appointment_id=%d, error=%v",
				h.action, appointmentID, err)
			return
		}
		h.logger.Error("PATCH /appointments/{id}/%s - Failed: appointment_id=%d, error=%v",
			h.action, appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/%s - Appointment is %s: appointment_id=%d",
		h.action, result.Status, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
