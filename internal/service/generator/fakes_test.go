package generator

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

type memorySlots struct {
	mu     sync.Mutex
	nextID int64
	slots  []domain.Slot
	locks  int
}

func (m *memorySlots) CreateBatch(_ context.Context, slots []domain.Slot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var inserted int64
	for _, s := range slots {
		duplicate := false
		for i := range m.slots {
			if m.slots[i].SameBounds(&s) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		m.nextID++
		s.ID = m.nextID
		m.slots = append(m.slots, s)
		inserted++
	}
	return inserted, nil
}

func (m *memorySlots) GetBySalonAndDate(_ context.Context, salonID int64, date time.Time) ([]domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Slot, 0)
	for _, s := range m.slots {
		if s.SalonID == salonID && domain.SameDate(s.Date, date) {
			result = append(result, s)
		}
	}
	domain.SortSlots(result)
	return result, nil
}

func (m *memorySlots) LockSalonDate(context.Context, int64, time.Time) error {
	m.mu.Lock()
	m.locks++
	m.mu.Unlock()
	return nil
}

func (m *memorySlots) forSalon(salonID int64) []domain.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]domain.Slot, 0)
	for _, s := range m.slots {
		if s.SalonID == salonID {
			result = append(result, s)
		}
	}
	domain.SortSlots(result)
	return result
}

type memoryRules struct {
	rules   []domain.OperatingRule
	listErr error
}

func (m *memoryRules) ListBySalon(_ context.Context, salonID int64) ([]domain.OperatingRule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]domain.OperatingRule, 0)
	for _, r := range m.rules {
		if r.SalonID == salonID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memoryRules) ListSalonIDs(context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, r := range m.rules {
		if !seen[r.SalonID] {
			seen[r.SalonID] = true
			ids = append(ids, r.SalonID)
		}
	}
	return ids, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	mu        sync.Mutex
	generated int
	conflicts int
}

func (m *countingMetrics) AddGeneratedSlots(count int) {
	m.mu.Lock()
	m.generated += count
	m.mu.Unlock()
}

func (m *countingMetrics) RecordGenerationConflict() {
	m.mu.Lock()
	m.conflicts++
	m.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
