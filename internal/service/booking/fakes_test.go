package booking

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/appointment"
)

// memoryStore хранит слоты и записи в памяти и реализует оба репозитория
// Транзакции сериализуются через txMu, при ошибке состояние откатывается к снимку
type memoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID       int64
	slots        map[int64]domain.Slot
	appointments map[int64]domain.Appointment

	reserveErr error
	linkErr    error
	locks      int
}

func newMemoryStore(slots ...domain.Slot) *memoryStore {
	s := &memoryStore{
		slots:        make(map[int64]domain.Slot),
		appointments: make(map[int64]domain.Appointment),
	}
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	return s
}

func (s *memoryStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	slots, appointments := s.snapshot()
	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.slots, s.appointments = slots, appointments
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) snapshot() (map[int64]domain.Slot, map[int64]domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make(map[int64]domain.Slot, len(s.slots))
	for id, slot := range s.slots {
		slots[id] = slot
	}
	appointments := make(map[int64]domain.Appointment, len(s.appointments))
	for id, a := range s.appointments {
		appointments[id] = a
	}
	return slots, appointments
}

func (s *memoryStore) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	stored := *a
	stored.Slots = nil
	stored.Services = nil
	s.appointments[a.ID] = stored
	return a, nil
}

func (s *memoryStore) LinkServices(_ context.Context, appointmentID int64, services []domain.AppointmentService) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.linkErr != nil {
		return s.linkErr
	}
	a := s.appointments[appointmentID]
	a.Services = append([]domain.AppointmentService(nil), services...)
	s.appointments[appointmentID] = a
	return nil
}

func (s *memoryStore) LinkSlots(context.Context, int64, []int64) error {
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	a.Slots = s.ownedLocked(id)
	return &a, nil
}

func (s *memoryStore) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for id := int64(1); id <= s.nextID; id++ {
		a, ok := s.appointments[id]
		if !ok {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		a.Slots = s.ownedLocked(id)
		result = append(result, &a)
	}
	return result, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id int64, from []domain.AppointmentStatus, to domain.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return appointmentRepo.ErrStatusConflict
	}
	for _, status := range from {
		if a.Status == status {
			a.Status = to
			s.appointments[id] = a
			return nil
		}
	}
	return appointmentRepo.ErrStatusConflict
}

func (s *memoryStore) Reserve(_ context.Context, salonID, appointmentID int64, slotIDs []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserveErr != nil {
		return 0, s.reserveErr
	}

	var reserved int64
	for _, id := range slotIDs {
		slot, ok := s.slots[id]
		if !ok || slot.SalonID != salonID || !slot.IsAvailable {
			continue
		}
		owner := appointmentID
		slot.IsAvailable = false
		slot.AppointmentID = &owner
		s.slots[id] = slot
		reserved++
	}
	return reserved, nil
}

func (s *memoryStore) ReleaseByAppointment(_ context.Context, appointmentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var released int64
	for id, slot := range s.slots {
		if slot.AppointmentID != nil && *slot.AppointmentID == appointmentID {
			slot.IsAvailable = true
			slot.AppointmentID = nil
			s.slots[id] = slot
			released++
		}
	}
	return released, nil
}

func (s *memoryStore) LockSalonDate(context.Context, int64, time.Time) error {
	s.mu.Lock()
	s.locks++
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) slot(id int64) domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id]
}

func (s *memoryStore) appointmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

func (s *memoryStore) ownedLocked(appointmentID int64) []domain.Slot {
	owned := make([]domain.Slot, 0)
	for _, slot := range s.slots {
		if slot.AppointmentID != nil && *slot.AppointmentID == appointmentID {
			owned = append(owned, slot)
		}
	}
	domain.SortSlots(owned)
	return owned
}

type countingMetrics struct {
	mu           sync.Mutex
	reservations map[string]int
	releases     map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		reservations: make(map[string]int),
		releases:     make(map[string]int),
	}
}

func (m *countingMetrics) RecordReservation(result string) {
	m.mu.Lock()
	m.reservations[result]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordRelease(result string) {
	m.mu.Lock()
	m.releases[result]++
	m.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
