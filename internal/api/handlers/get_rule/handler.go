package get_rule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

const (
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidScope   = "некорректная область действия правила: ожидается fixed/{0-6} или irregular/{YYYY-MM-DD}"
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

// Handle GET /api/v1/salons/{salonId}/rules/{kind}/{value}
// kind=fixed - value день недели (0 - воскресенье), kind=irregular - value дата YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/rules/{kind}/{value} - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	scope, err := parseScope(mux.Vars(r))
	if err != nil {
		h.logger.Warn("GET /salons/{id}/rules/{kind}/{value} - Invalid scope: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScope)
		return
	}

	rule, err := h.service.GetRule(r.Context(), salonID, scope)
	if err != nil {
		if handlers.RespondDomainError(w, err) {
			h.logger.Warn("GET /salons/{id}/rules/{kind}/{value} - Rejected: salon_id=%d, scope=%s, error=%v",
				salonID, scope, err)
			return
		}
		h.logger.Error("GET /salons/{id}/rules/{kind}/{value} - Failed to get rule: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRule(rule))
}

func parseScope(vars map[string]string) (domain.RuleScope, error) {
	kind, value := vars["kind"], vars["value"]

	if domain.RuleKind(kind) == domain.RuleKindFixed {
		weekday, err := strconv.Atoi(value)
		if err != nil {
			return domain.RuleScope{}, domain.ErrInvalidInput.Wrap("weekday must be a number, got %q", value)
		}
		return models.ParseScope(kind, &weekday, nil)
	}

	return models.ParseScope(kind, nil, &value)
}
