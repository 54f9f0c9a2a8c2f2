package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Service планировщик записи: проверяет, что предложенные слоты подходят под набор услуг
// Никогда не меняет доступность слотов
type Service struct {
	slotRepo SlotRepository
	rules    RuleProvider
	logger   Logger
}

// NewService создает новый экземпляр планировщика
func NewService(slotRepo SlotRepository, rules RuleProvider, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		rules:    rules,
		logger:   logger,
	}
}

// Plan загружает слоты и действующее правило, затем проверяет набор через Validate
func (s *Service) Plan(ctx context.Context, req *Request) (*domain.PlannedAppointment, error) {
	s.logger.Info("Plan: salon=%d, services=%d, slots=%v", req.SalonID, len(req.Services), req.SlotIDs)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("Plan: invalid request: %v", err)
		return nil, err
	}

	slots, err := s.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		s.logger.Error("Plan: failed to get slots %v: %v", req.SlotIDs, err)
		return nil, fmt.Errorf("%w: Plan - get slots: %v", ErrInternal, err)
	}

	// Правило берем на дату первого слота салона, остальные проверки сделает Validate
	var rule *domain.OperatingRule
	if first := firstSalonSlot(slots, req.SalonID); first != nil {
		rule, err = s.rules.EffectiveRule(ctx, req.SalonID, first.Date)
		if err != nil && !errors.Is(err, domain.ErrRuleNotFound) {
			s.logger.Error("Plan: failed to get effective rule for salon=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: Plan - get effective rule: %v", ErrInternal, err)
		}
	}

	planned, err := Validate(&Input{
		SalonID:  req.SalonID,
		Customer: req.Customer,
		Comment:  req.Comment,
		Services: req.Services,
		SlotIDs:  req.SlotIDs,
		Slots:    slots,
		Rule:     rule,
	})
	if err != nil {
		s.logger.Warn("Plan: rejected for salon=%d: %v", req.SalonID, err)
		return nil, err
	}

	s.logger.Info("Plan: salon=%d, date=%s, %s-%s, total=%s",
		planned.SalonID, planned.Date.Format(domain.DateFormat),
		planned.Slots[0].TimeFrom, planned.Slots[len(planned.Slots)-1].TimeTo, planned.TotalAmount)

	return planned, nil
}

// Validate проверяет набор слотов под услуги. Порядок проверок фиксирован, первая ошибка побеждает:
//  1. каждый слот принадлежит салону и свободен (SlotUnavailable)
//  2. все слоты в одну дату (CrossDayBooking)
//  3. ceil(сумма длительностей / шаг) == количество слотов (SlotCountMismatch)
//  4. слоты идут встык после сортировки (NonContiguousSlots)
//  5. последний слот заканчивается не позже закрытия (ExceedsOperatingHours)
//  6. каждая услуга принадлежит салону (ServiceSalonMismatch)
func Validate(in *Input) (*domain.PlannedAppointment, error) {
	if len(in.SlotIDs) == 0 || len(in.Services) == 0 {
		return nil, domain.ErrInvalidInput.Wrap("appointment needs at least one slot and one service")
	}

	byID := make(map[int64]domain.Slot, len(in.Slots))
	for _, slot := range in.Slots {
		byID[slot.ID] = slot
	}

	// 1. Принадлежность и доступность
	slots := make([]domain.Slot, 0, len(in.SlotIDs))
	for _, id := range in.SlotIDs {
		slot, ok := byID[id]
		if !ok {
			return nil, domain.ErrSlotUnavailable.Wrap("slot %d does not exist", id)
		}
		if slot.SalonID != in.SalonID {
			return nil, domain.ErrSlotUnavailable.Wrap("slot %d belongs to another salon", id)
		}
		if !slot.IsAvailable {
			return nil, domain.ErrSlotUnavailable.Wrap("slot %d is already booked", id)
		}
		slots = append(slots, slot)
	}

	// 2. Одна дата
	date := slots[0].Date
	for _, slot := range slots[1:] {
		if !domain.SameDate(slot.Date, date) {
			return nil, domain.ErrCrossDayBooking.Wrap("slots span %s and %s",
				date.Format(domain.DateFormat), slot.Date.Format(domain.DateFormat))
		}
	}

	// 3. Количество слотов
	slotLength := slots[0].DurationMinutes()
	if in.Rule != nil {
		slotLength = in.Rule.SlotLengthMinutes
	}
	if slotLength <= 0 {
		return nil, domain.ErrSlotCountMismatch.Wrap("slot length is not positive")
	}

	totalDuration := domain.TotalDuration(in.Services)
	required := (totalDuration + slotLength - 1) / slotLength
	if required != len(slots) {
		return nil, domain.ErrSlotCountMismatch.Wrap("services take %d minutes, need %d slots of %d minutes, got %d",
			totalDuration, required, slotLength, len(slots))
	}

	// 4. Непрерывность
	domain.SortSlots(slots)
	for i := 1; i < len(slots); i++ {
		if !slots[i-1].TimeTo.Equal(slots[i].TimeFrom) {
			return nil, domain.ErrNonContiguousSlots.Wrap("gap between %s and %s",
				slots[i-1].TimeTo, slots[i].TimeFrom)
		}
	}

	// 5. Рабочие часы
	last := slots[len(slots)-1]
	if in.Rule == nil {
		return nil, domain.ErrExceedsOperatingHours.Wrap("salon %d has no operating rule for %s",
			in.SalonID, date.Format(domain.DateFormat))
	}
	if last.TimeTo.IsAfter(in.Rule.CloseTime) {
		return nil, domain.ErrExceedsOperatingHours.Wrap("appointment ends at %s, salon closes at %s",
			last.TimeTo, in.Rule.CloseTime)
	}

	// 6. Услуги салона
	for _, service := range in.Services {
		if service.SalonID != in.SalonID {
			return nil, domain.ErrServiceSalonMismatch.Wrap("service %d belongs to salon %d", service.ID, service.SalonID)
		}
	}

	return &domain.PlannedAppointment{
		SalonID:     in.SalonID,
		Customer:    in.Customer,
		Comment:     in.Comment,
		Date:        domain.DateOf(date),
		Services:    in.Services,
		Slots:       slots,
		TotalAmount: domain.TotalPrice(in.Services),
	}, nil
}

func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return domain.ErrInvalidInput.Wrap("salon id must be positive")
	}
	if len(req.Services) == 0 {
		return domain.ErrInvalidInput.Wrap("at least one service is required")
	}
	if len(req.SlotIDs) == 0 {
		return domain.ErrInvalidInput.Wrap("at least one slot is required")
	}
	if len(req.SlotIDs) > domain.MaxSlotsPerBooking {
		return domain.ErrInvalidInput.Wrap("at most %d slots per appointment", domain.MaxSlotsPerBooking)
	}

	seen := make(map[int64]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if _, dup := seen[id]; dup {
			return domain.ErrInvalidInput.Wrap("slot %d is listed twice", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func firstSalonSlot(slots []domain.Slot, salonID int64) *domain.Slot {
	for i := range slots {
		if slots[i].SalonID == salonID {
			return &slots[i]
		}
	}
	return nil
}
