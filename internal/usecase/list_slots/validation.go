package list_slots

import (
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return domain.ErrInvalidInput.Wrap("salon must be positive")
	}

	if req.DateFrom != nil && req.DateTo != nil {
		from, to := domain.DateOf(*req.DateFrom), domain.DateOf(*req.DateTo)
		if to.Before(from) {
			return domain.ErrInvalidInput.Wrap("date_to %s is before date_from %s",
				to.Format(domain.DateFormat), from.Format(domain.DateFormat))
		}
		// Окно запроса не шире максимального горизонта генерации
		if to.After(from.AddDate(0, 0, domain.MaxHorizonDays)) {
			return domain.ErrInvalidInput.Wrap("date range is wider than %d days", domain.MaxHorizonDays)
		}
	}

	return nil
}
