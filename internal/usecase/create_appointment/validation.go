package create_appointment

import (
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return domain.ErrInvalidInput.Wrap("salonId must be positive")
	}

	if strings.TrimSpace(req.Customer) == "" {
		return domain.ErrInvalidInput.Wrap("customer is required")
	}
	if utf8.RuneCountInString(req.Customer) > domain.MaxCustomerLength {
		return domain.ErrInvalidInput.Wrap("customer is longer than %d characters", domain.MaxCustomerLength)
	}

	if req.Comment != nil && utf8.RuneCountInString(*req.Comment) > domain.MaxCommentLength {
		return domain.ErrInvalidInput.Wrap("comment is longer than %d characters", domain.MaxCommentLength)
	}

	if len(req.ServiceIDs) == 0 {
		return domain.ErrInvalidInput.Wrap("at least one service is required")
	}
	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return domain.ErrInvalidInput.Wrap("at most %d services per appointment", domain.MaxServicesPerBooking)
	}
	if err := validateIDs("service", req.ServiceIDs); err != nil {
		return err
	}

	if len(req.SlotIDs) == 0 {
		return domain.ErrInvalidInput.Wrap("at least one slot is required")
	}
	if len(req.SlotIDs) > domain.MaxSlotsPerBooking {
		return domain.ErrInvalidInput.Wrap("at most %d slots per appointment", domain.MaxSlotsPerBooking)
	}

	return validateIDs("slot", req.SlotIDs)
}

// validateIDs проверяет, что ID положительные и не повторяются
func validateIDs(name string, ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return domain.ErrInvalidInput.Wrap("%s id must be positive, got %d", name, id)
		}
		if _, dup := seen[id]; dup {
			return domain.ErrInvalidInput.Wrap("%s %d is listed twice", name, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
