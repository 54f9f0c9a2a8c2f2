package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req createAppointment.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("POST /appointments - Rejected: salon_id=%d, slots=%v, error=%v",
				req.SalonID, req.SlotIDs, err)
			return
		}
		h.logger.Error("POST /appointments - Failed to create appointment: salon_id=%d, error=%v", req.SalonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, salon_id=%d",
		result.ID, result.SalonID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
