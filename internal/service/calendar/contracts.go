package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/generator"
)

// RuleRepository интерфейс репозитория правил работы
type RuleRepository interface {
	Upsert(ctx context.Context, rule *domain.OperatingRule) (*domain.OperatingRule, error)
	GetByScope(ctx context.Context, salonID int64, scope domain.RuleScope) (*domain.OperatingRule, error)
	ListForDate(ctx context.Context, salonID int64, date time.Time) ([]domain.OperatingRule, error)
	ListBySalon(ctx context.Context, salonID int64) ([]domain.OperatingRule, error)
	Delete(ctx context.Context, salonID, id int64) error
}

// SalonClient интерфейс клиента каталога для проверки салона
type SalonClient interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

// SlotGenerator интерфейс генератора слотов
type SlotGenerator interface {
	Generate(ctx context.Context, rule *domain.OperatingRule, today time.Time, horizonDays int) (*generator.Report, error)
	GenerateForSalon(ctx context.Context, salonID int64, today time.Time, horizonDays int) (*generator.Report, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе салонов
// "Сегодня" для горизонта генерации считается в этом поясе, как и в ночном планировщике
type RealTimeProvider struct {
	location *time.Location
}

// NewRealTimeProvider создает провайдер времени, nil означает UTC
func NewRealTimeProvider(location *time.Location) *RealTimeProvider {
	if location == nil {
		location = time.UTC
	}
	return &RealTimeProvider{location: location}
}

// Now возвращает текущее время в часовом поясе провайдера
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().In(p.location)
}
