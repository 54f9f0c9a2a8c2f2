package planner

import "github.com/m04kA/SMC-SalonScheduler/internal/domain"

// Request запрос на планирование записи
type Request struct {
	SalonID  int64
	Customer string
	Comment  *string
	Services []domain.Service
	SlotIDs  []int64
}

// Input все данные, нужные для проверки набора слотов
// Slots - найденные по SlotIDs слоты (отсутствующие ID в них не попадают)
// Rule - действующее правило на дату слотов, nil если правила нет
type Input struct {
	SalonID  int64
	Customer string
	Comment  *string
	Services []domain.Service
	SlotIDs  []int64
	Slots    []domain.Slot
	Rule     *domain.OperatingRule
}
