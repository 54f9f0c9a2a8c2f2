package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Service генератор слотов: разворачивает правила работы в строки хранилища слотов
// на скользящем горизонте. Повторный запуск не создает дубликатов
type Service struct {
	slotRepo  SlotRepository
	ruleRepo  RuleRepository
	txManager TransactionManager
	metrics   MetricsRecorder
	logger    Logger
	workers   int
}

// NewService создает новый экземпляр генератора
// workers - сколько салонов обрабатывается параллельно в GenerateAll
func NewService(
	slotRepo SlotRepository,
	ruleRepo RuleRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
	workers int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		slotRepo:  slotRepo,
		ruleRepo:  ruleRepo,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger,
		workers:   workers,
	}
}

// Expand разворачивает окно правила в слоты на дату
// Шагаем от open к close с шагом slotLength, неполный хвост отбрасывается
func Expand(rule *domain.OperatingRule, date time.Time) ([]domain.Slot, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	open, _ := rule.OpenTime.Minutes()
	closeAt, _ := rule.CloseTime.Minutes()
	step := rule.SlotLengthMinutes
	day := domain.DateOf(date)

	slots := make([]domain.Slot, 0, (closeAt-open)/step)
	for from := open; from+step <= closeAt; from += step {
		timeFrom, err := types.NewTimeStringFromMinutes(from)
		if err != nil {
			return nil, err
		}
		timeTo, err := types.NewTimeStringFromMinutes(from + step)
		if err != nil {
			return nil, err
		}

		slots = append(slots, domain.Slot{
			SalonID:     rule.SalonID,
			Date:        day,
			TimeFrom:    timeFrom,
			TimeTo:      timeTo,
			IsAvailable: true,
		})
	}

	return slots, nil
}

// Generate материализует слоты одного правила
// Fixed: все даты в [today, today+horizonDays] с подходящим днем недели,
// кроме дат, для которых есть разовое правило
// Irregular: его единственная дата, если она не в прошлом
func (s *Service) Generate(ctx context.Context, rule *domain.OperatingRule, today time.Time, horizonDays int) (*Report, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Generate: salon=%d, rule=%s, today=%s, horizon=%d",
		rule.SalonID, rule.Scope, today.Format(domain.DateFormat), horizonDays)

	report := newReport(rule.SalonID)
	start := domain.DateOf(today)

	if rule.IsIrregular() {
		if rule.Scope.Date.Before(start) {
			s.logger.Info("Generate: irregular rule date %s is in the past, skipping",
				rule.Scope.Date.Format(domain.DateFormat))
			return report, nil
		}
		if err := s.generateDate(ctx, rule, rule.Scope.Date, report); err != nil {
			return nil, err
		}
		return report, nil
	}

	// Разовые правила перекрывают постоянное на свою дату
	rules, err := s.ruleRepo.ListBySalon(ctx, rule.SalonID)
	if err != nil {
		s.logger.Error("Generate: failed to list rules for salon=%d: %v", rule.SalonID, err)
		return nil, fmt.Errorf("%w: Generate - list rules: %v", ErrInternal, err)
	}

	end := start.AddDate(0, 0, horizonDays)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !rule.Scope.Matches(date) {
			continue
		}
		if effective := domain.EffectiveRule(rules, date); effective != nil && effective.IsIrregular() {
			continue
		}
		if err := s.generateDate(ctx, rule, date, report); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Generate: salon=%d, dates=%d, created=%d, conflicts=%d",
		report.SalonID, report.DatesProcessed, report.SlotsCreated, len(report.Conflicts))

	return report, nil
}

// GenerateForSalon материализует слоты салона по действующим правилам на каждую дату горизонта
// Разовые правила за пределами горизонта тоже разворачиваются
func (s *Service) GenerateForSalon(ctx context.Context, salonID int64, today time.Time, horizonDays int) (*Report, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("GenerateForSalon: failed to list rules for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GenerateForSalon - list rules: %v", ErrInternal, err)
	}

	report := newReport(salonID)
	if len(rules) == 0 {
		return report, nil
	}

	start := domain.DateOf(today)
	end := start.AddDate(0, 0, horizonDays)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		effective := domain.EffectiveRule(rules, date)
		if effective == nil {
			continue
		}
		if err := s.generateDate(ctx, effective, date, report); err != nil {
			return nil, err
		}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.IsIrregular() && rule.Scope.Date.After(end) {
			if err := s.generateDate(ctx, rule, rule.Scope.Date, report); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("GenerateForSalon: salon=%d, dates=%d, created=%d, conflicts=%d",
		salonID, report.DatesProcessed, report.SlotsCreated, len(report.Conflicts))

	return report, nil
}

// GenerateAll продлевает горизонт для всех салонов, у которых есть правила
// Салоны обрабатываются параллельно (не больше workers одновременно),
// ошибка одного салона не останавливает остальные
func (s *Service) GenerateAll(ctx context.Context, today time.Time, horizonDays int) ([]*Report, error) {
	salonIDs, err := s.ruleRepo.ListSalonIDs(ctx)
	if err != nil {
		s.logger.Error("GenerateAll: failed to list salons: %v", err)
		return nil, fmt.Errorf("%w: GenerateAll - list salons: %v", ErrInternal, err)
	}

	s.logger.Info("GenerateAll: %d salons, horizon=%d, workers=%d", len(salonIDs), horizonDays, s.workers)

	reports := make([]*Report, len(salonIDs))

	var (
		mu   sync.Mutex
		errs []error
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, salonID := range salonIDs {
		g.Go(func() error {
			report, err := s.GenerateForSalon(gCtx, salonID, today, horizonDays)
			if err != nil {
				s.logger.Error("GenerateAll: salon=%d failed: %v", salonID, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("salon %d: %w", salonID, err))
				mu.Unlock()
				return nil
			}
			reports[i] = report
			return nil
		})
	}

	_ = g.Wait()

	done := make([]*Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			done = append(done, r)
		}
	}

	return done, errors.Join(errs...)
}

// generateDate создает недостающие слоты на одну дату в отдельной транзакции
// Конфликт границ откатывает только эту дату и попадает в отчет
func (s *Service) generateDate(ctx context.Context, rule *domain.OperatingRule, date time.Time, report *Report) error {
	candidates, err := Expand(rule, date)
	if err != nil {
		return err
	}

	var created int64
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.slotRepo.LockSalonDate(txCtx, rule.SalonID, date); err != nil {
			return fmt.Errorf("%w: lock salon date: %v", ErrInternal, err)
		}

		existing, err := s.slotRepo.GetBySalonAndDate(txCtx, rule.SalonID, date)
		if err != nil {
			return fmt.Errorf("%w: get existing slots: %v", ErrInternal, err)
		}

		missing, err := missingSlots(candidates, existing)
		if err != nil {
			return err
		}

		created, err = s.slotRepo.CreateBatch(txCtx, missing)
		if err != nil {
			return fmt.Errorf("%w: create slots: %v", ErrInternal, err)
		}
		return nil
	})

	if errors.Is(err, domain.ErrSlotConflict) {
		s.logger.Warn("generateDate: salon=%d, date=%s skipped: %v",
			rule.SalonID, date.Format(domain.DateFormat), err)
		report.Conflicts = append(report.Conflicts, Conflict{Date: domain.DateOf(date), Message: err.Error()})
		s.metrics.RecordGenerationConflict()
		return nil
	}
	if err != nil {
		s.logger.Error("generateDate: salon=%d, date=%s failed: %v",
			rule.SalonID, date.Format(domain.DateFormat), err)
		return err
	}

	report.DatesProcessed++
	report.SlotsCreated += int(created)
	s.metrics.AddGeneratedSlots(int(created))

	return nil
}

// missingSlots возвращает кандидатов, которых еще нет в хранилище
// Кандидат, пересекающий существующий слот с другими границами, дает SlotConflict
func missingSlots(candidates, existing []domain.Slot) ([]domain.Slot, error) {
	missing := make([]domain.Slot, 0, len(candidates))

	for i := range candidates {
		candidate := &candidates[i]
		exists := false

		for j := range existing {
			current := &existing[j]
			if candidate.SameBounds(current) {
				exists = true
				break
			}
			if candidate.Overlaps(current) {
				return nil, domain.ErrSlotConflict.Wrap("slot %s-%s overlaps existing %s-%s",
					candidate.TimeFrom, candidate.TimeTo, current.TimeFrom, current.TimeTo)
			}
		}

		if !exists {
			missing = append(missing, *candidate)
		}
	}

	return missing, nil
}

func validateHorizon(horizonDays int) error {
	if horizonDays < 0 || horizonDays > domain.MaxHorizonDays {
		return domain.ErrInvalidInput.Wrap("horizon must be in [0, %d] days, got %d", domain.MaxHorizonDays, horizonDays)
	}
	return nil
}
