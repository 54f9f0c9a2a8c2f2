package generator

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// SlotRepository интерфейс хранилища слотов
type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []domain.Slot) (int64, error)
	GetBySalonAndDate(ctx context.Context, salonID int64, date time.Time) ([]domain.Slot, error)
	LockSalonDate(ctx context.Context, salonID int64, date time.Time) error
}

// RuleRepository интерфейс репозитория правил работы
type RuleRepository interface {
	ListBySalon(ctx context.Context, salonID int64) ([]domain.OperatingRule, error)
	ListSalonIDs(ctx context.Context) ([]int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для доменных метрик генерации
type MetricsRecorder interface {
	AddGeneratedSlots(count int)
	RecordGenerationConflict()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
