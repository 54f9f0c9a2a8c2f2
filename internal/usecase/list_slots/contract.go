package list_slots

import (
	"context"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// SlotRepository интерфейс хранилища слотов (только чтение)
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
