package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	ruleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/rule"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
)

// Service операционный календарь салонов
// Хранит окно работы и шаг слотов на каждый день, после записи правила явно запускает генератор
type Service struct {
	ruleRepo     RuleRepository
	salonClient  SalonClient
	generator    SlotGenerator
	timeProvider TimeProvider
	logger       Logger
	horizonDays  int
}

// NewService создает новый экземпляр календаря
func NewService(
	ruleRepo RuleRepository,
	salonClient SalonClient,
	generator SlotGenerator,
	logger Logger,
	horizonDays int,
	location *time.Location,
) *Service {
	return &Service{
		ruleRepo:     ruleRepo,
		salonClient:  salonClient,
		generator:    generator,
		timeProvider: NewRealTimeProvider(location),
		logger:       logger,
		horizonDays:  horizonDays,
	}
}

// SetRule создает или заменяет правило для (салон, область действия)
// Уже сгенерированные слоты не удаляются, новое правило видят только будущие запуски генератора
// Ошибка генерации после сохранения не отменяет запись правила
func (s *Service) SetRule(ctx context.Context, salonID int64, req *models.SetRuleRequest) (*models.SetRuleResponse, error) {
	s.logger.Info("SetRule: salon=%d, kind=%s", salonID, req.Kind)

	// 1. Собираем и валидируем правило
	rule, err := req.ToDomainRule(salonID)
	if err != nil {
		s.logger.Warn("SetRule: invalid request for salon=%d: %v", salonID, err)
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		s.logger.Warn("SetRule: invalid rule for salon=%d: %v", salonID, err)
		return nil, err
	}

	// 2. Проверяем, что салон существует
	if err := s.checkSalon(ctx, salonID); err != nil {
		return nil, err
	}

	// 3. Сохраняем правило
	saved, err := s.ruleRepo.Upsert(ctx, rule)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrConstraintViolation) {
			s.logger.Warn("SetRule: constraint violation for salon=%d: %v", salonID, err)
			return nil, domain.ErrInvalidInput.WithCause(err)
		}
		s.logger.Error("SetRule: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: SetRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetRule: saved rule id=%d (%s) for salon=%d", saved.ID, saved.Scope, salonID)

	// 4. Явно запускаем генерацию после успешной записи
	report, err := s.generator.Generate(ctx, saved, s.timeProvider.Now(), s.horizonDays)
	if err != nil {
		s.logger.Error("SetRule: generation failed for rule id=%d: %v", saved.ID, err)
	}

	return &models.SetRuleResponse{
		Rule:       *models.FromDomainRule(saved),
		Generation: models.FromReport(report),
	}, nil
}

// GetRules получает все правила салона
func (s *Service) GetRules(ctx context.Context, salonID int64) (*models.RuleListResponse, error) {
	s.logger.Info("GetRules: fetching rules for salon=%d", salonID)

	rules, err := s.ruleRepo.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("GetRules: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetRules - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetRules: fetched %d rules for salon=%d", len(rules), salonID)
	return models.FromDomainRuleList(rules), nil
}

// GetRule получает правило салона для конкретной области действия
func (s *Service) GetRule(ctx context.Context, salonID int64, scope domain.RuleScope) (*domain.OperatingRule, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.GetByScope(ctx, salonID, scope)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return nil, domain.ErrRuleNotFound.Wrap("salon %d, %s", salonID, scope)
		}
		s.logger.Error("GetRule: repository error for salon=%d, scope=%s: %v", salonID, scope, err)
		return nil, fmt.Errorf("%w: GetRule - repository error: %v", ErrInternal, err)
	}

	return rule, nil
}

// EffectiveRule возвращает правило, действующее в дату: разовое правило перекрывает постоянное
func (s *Service) EffectiveRule(ctx context.Context, salonID int64, date time.Time) (*domain.OperatingRule, error) {
	rules, err := s.ruleRepo.ListForDate(ctx, salonID, date)
	if err != nil {
		s.logger.Error("EffectiveRule: repository error for salon=%d, date=%s: %v",
			salonID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: EffectiveRule - repository error: %v", ErrInternal, err)
	}

	rule := domain.EffectiveRule(rules, date)
	if rule == nil {
		return nil, domain.ErrRuleNotFound.Wrap("salon %d has no rule for %s", salonID, date.Format(domain.DateFormat))
	}

	return rule, nil
}

// DeleteRule удаляет правило салона, сгенерированные слоты остаются
func (s *Service) DeleteRule(ctx context.Context, salonID, ruleID int64) error {
	s.logger.Info("DeleteRule: salon=%d, rule=%d", salonID, ruleID)

	if err := s.ruleRepo.Delete(ctx, salonID, ruleID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("DeleteRule: rule id=%d not found for salon=%d", ruleID, salonID)
			return domain.ErrRuleNotFound.Wrap("rule %d", ruleID)
		}
		s.logger.Error("DeleteRule: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: DeleteRule - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Regenerate повторно запускает генерацию слотов салона на горизонт
func (s *Service) Regenerate(ctx context.Context, salonID int64) (*models.GenerationResponse, error) {
	s.logger.Info("Regenerate: salon=%d, horizon=%d", salonID, s.horizonDays)

	if err := s.checkSalon(ctx, salonID); err != nil {
		return nil, err
	}

	report, err := s.generator.GenerateForSalon(ctx, salonID, s.timeProvider.Now(), s.horizonDays)
	if err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		s.logger.Error("Regenerate: generation failed for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: Regenerate - generation error: %v", ErrInternal, err)
	}

	return models.FromReport(report), nil
}

func (s *Service) checkSalon(ctx context.Context, salonID int64) error {
	if _, err := s.salonClient.GetSalon(ctx, salonID); err != nil {
		if errors.Is(err, catalogClient.ErrSalonNotFound) {
			s.logger.Warn("checkSalon: salon id=%d not found", salonID)
			return domain.ErrSalonNotFound.Wrap("salon %d", salonID)
		}
		s.logger.Error("checkSalon: failed to get salon id=%d: %v", salonID, err)
		return fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}
	return nil
}
