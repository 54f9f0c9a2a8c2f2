package planner

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// SlotRepository интерфейс хранилища слотов (только чтение)
type SlotRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Slot, error)
}

// RuleProvider интерфейс получения действующего правила работы на дату
type RuleProvider interface {
	EffectiveRule(ctx context.Context, salonID int64, date time.Time) (*domain.OperatingRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
