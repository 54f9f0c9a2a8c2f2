package models

import (
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/generator"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// Request модели

// SetRuleRequest запрос на создание или замену правила работы салона
// Для kind=fixed указывается weekday (0 - воскресенье), для kind=irregular - date (YYYY-MM-DD)
type SetRuleRequest struct {
	Kind              string  `json:"kind"`
	Weekday           *int    `json:"weekday,omitempty"`
	Date              *string `json:"date,omitempty"`
	OpenTime          string  `json:"openTime"`
	CloseTime         string  `json:"closeTime"`
	SlotLengthMinutes *int    `json:"slotLengthMinutes,omitempty"` // По умолчанию 20
}

// ToDomainRule конвертирует запрос в доменное правило (без валидации окна и шага)
func (r *SetRuleRequest) ToDomainRule(salonID int64) (*domain.OperatingRule, error) {
	scope, err := ParseScope(r.Kind, r.Weekday, r.Date)
	if err != nil {
		return nil, err
	}

	openTime, err := types.NewTimeStringFromString(r.OpenTime)
	if err != nil {
		return nil, domain.ErrInvalidWindow.Wrap("open time: %v", err)
	}
	closeTime, err := types.NewTimeStringFromString(r.CloseTime)
	if err != nil {
		return nil, domain.ErrInvalidWindow.Wrap("close time: %v", err)
	}

	slotLength := domain.DefaultSlotLengthMinutes
	if r.SlotLengthMinutes != nil {
		slotLength = *r.SlotLengthMinutes
	}

	return &domain.OperatingRule{
		SalonID:           salonID,
		Scope:             scope,
		OpenTime:          openTime,
		CloseTime:         closeTime,
		SlotLengthMinutes: slotLength,
	}, nil
}

// ParseScope собирает область действия правила из полей запроса
func ParseScope(kind string, weekday *int, date *string) (domain.RuleScope, error) {
	switch domain.RuleKind(kind) {
	case domain.RuleKindFixed:
		if weekday == nil {
			return domain.RuleScope{}, domain.ErrInvalidInput.Wrap("weekday is required for fixed rule")
		}
		scope := domain.FixedScope(time.Weekday(*weekday))
		return scope, scope.Validate()

	case domain.RuleKindIrregular:
		if date == nil {
			return domain.RuleScope{}, domain.ErrInvalidInput.Wrap("date is required for irregular rule")
		}
		parsed, err := time.Parse(domain.DateFormat, *date)
		if err != nil {
			return domain.RuleScope{}, domain.ErrInvalidInput.Wrap("date must be YYYY-MM-DD, got %q", *date)
		}
		return domain.IrregularScope(parsed), nil

	default:
		return domain.RuleScope{}, domain.ErrInvalidInput.Wrap("kind must be %q or %q, got %q",
			domain.RuleKindFixed, domain.RuleKindIrregular, kind)
	}
}

// Response модели

// RuleResponse ответ с данными правила работы
type RuleResponse struct {
	ID                int64     `json:"id"`
	SalonID           int64     `json:"salonId"`
	Kind              string    `json:"kind"`
	Weekday           *int      `json:"weekday,omitempty"`
	Date              *string   `json:"date,omitempty"`
	OpenTime          string    `json:"openTime"`
	CloseTime         string    `json:"closeTime"`
	SlotLengthMinutes int       `json:"slotLengthMinutes"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил салона
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// ConflictResponse дата, пропущенная генератором
type ConflictResponse struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// GenerationResponse результат генерации слотов
type GenerationResponse struct {
	SalonID        int64              `json:"salonId"`
	DatesProcessed int                `json:"datesProcessed"`
	SlotsCreated   int                `json:"slotsCreated"`
	Conflicts      []ConflictResponse `json:"conflicts"`
}

// SetRuleResponse ответ на сохранение правила
// Generation отсутствует, если генерация после сохранения не удалась
type SetRuleResponse struct {
	Rule       RuleResponse        `json:"rule"`
	Generation *GenerationResponse `json:"generation,omitempty"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.OperatingRule) *RuleResponse {
	if r == nil {
		return nil
	}

	resp := &RuleResponse{
		ID:                r.ID,
		SalonID:           r.SalonID,
		Kind:              string(r.Scope.Kind),
		OpenTime:          r.OpenTime.String(),
		CloseTime:         r.CloseTime.String(),
		SlotLengthMinutes: r.SlotLengthMinutes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}

	if r.IsFixed() {
		weekday := int(r.Scope.Weekday)
		resp.Weekday = &weekday
	} else {
		date := r.Scope.Date.Format(domain.DateFormat)
		resp.Date = &date
	}

	return resp
}

// FromDomainRuleList конвертирует список правил в DTO
func FromDomainRuleList(rules []domain.OperatingRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}
	for i := range rules {
		resp.Rules = append(resp.Rules, *FromDomainRule(&rules[i]))
	}
	return resp
}

// FromReport конвертирует отчет генератора в DTO
func FromReport(r *generator.Report) *GenerationResponse {
	if r == nil {
		return nil
	}

	resp := &GenerationResponse{
		SalonID:        r.SalonID,
		DatesProcessed: r.DatesProcessed,
		SlotsCreated:   r.SlotsCreated,
		Conflicts:      make([]ConflictResponse, 0, len(r.Conflicts)),
	}
	for _, c := range r.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictResponse{
			Date:    c.Date.Format(domain.DateFormat),
			Message: c.Message,
		})
	}

	return resp
}
