package catalogservice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Salon модель салона из каталога
type Salon struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Service модель услуги из каталога
type Service struct {
	ID              int64           `json:"id"`
	SalonID         int64           `json:"salon_id"`
	Category        string          `json:"category"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

// ServiceListResponse ответ на запрос списка услуг
type ServiceListResponse struct {
	Services []Service `json:"services"`
}

// ToDomain конвертирует салон в доменную модель
func (s *Salon) ToDomain() *domain.Salon {
	return &domain.Salon{
		ID:   s.ID,
		Name: s.Name,
	}
}

// ToDomain конвертирует услугу в доменную модель
// Цена с точностью больше копейки отклоняется: в БД она молча округлилась бы
func (s *Service) ToDomain() (domain.Service, error) {
	if !s.Price.Equal(s.Price.Round(domain.MoneyScale)) {
		return domain.Service{}, fmt.Errorf("%w: service id=%d price %s has more than %d decimal places",
			ErrInvalidResponse, s.ID, s.Price, domain.MoneyScale)
	}

	return domain.Service{
		ID:              s.ID,
		SalonID:         s.SalonID,
		Category:        s.Category,
		Title:           s.Title,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}, nil
}
