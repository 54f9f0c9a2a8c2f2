package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

// RuleKind tells whether an operating rule repeats weekly or applies to one date
type RuleKind string

const (
	RuleKindFixed     RuleKind = "fixed"
	RuleKindIrregular RuleKind = "irregular"
)

// RuleScope identifies the days an operating rule applies to.
// Fixed rules use Weekday, Irregular rules use Date.
type RuleScope struct {
	Kind    RuleKind
	Weekday time.Weekday
	Date    time.Time
}

// FixedScope returns a scope matching every date with the given weekday
func FixedScope(weekday time.Weekday) RuleScope {
	return RuleScope{Kind: RuleKindFixed, Weekday: weekday}
}

// IrregularScope returns a scope matching exactly one calendar date
func IrregularScope(date time.Time) RuleScope {
	return RuleScope{Kind: RuleKindIrregular, Date: DateOf(date)}
}

// Validate checks that the scope is well formed
func (s RuleScope) Validate() error {
	switch s.Kind {
	case RuleKindFixed:
		if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
			return ErrInvalidInput.Wrap("weekday must be in [0, 6], got %d", s.Weekday)
		}
	case RuleKindIrregular:
		if s.Date.IsZero() {
			return ErrInvalidInput.Wrap("irregular rule requires a date")
		}
	default:
		return ErrInvalidInput.Wrap("unknown rule kind %q", s.Kind)
	}
	return nil
}

// Matches returns true if the scope covers the given date
func (s RuleScope) Matches(date time.Time) bool {
	switch s.Kind {
	case RuleKindFixed:
		return date.Weekday() == s.Weekday
	case RuleKindIrregular:
		return SameDate(s.Date, date)
	default:
		return false
	}
}

func (s RuleScope) String() string {
	if s.Kind == RuleKindIrregular {
		return fmt.Sprintf("irregular(%s)", s.Date.Format(DateFormat))
	}
	return fmt.Sprintf("fixed(%s)", s.Weekday)
}

// OperatingRule is the open/close window and slot granularity of a salon for a scope.
// At most one rule exists per (salon, scope).
type OperatingRule struct {
	ID                int64
	SalonID           int64
	Scope             RuleScope
	OpenTime          types.TimeString
	CloseTime         types.TimeString
	SlotLengthMinutes int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the window and the granularity.
// A trailing partial slot is allowed and is dropped during generation.
func (r *OperatingRule) Validate() error {
	if err := r.Scope.Validate(); err != nil {
		return err
	}

	open, err := r.OpenTime.Minutes()
	if err != nil {
		return ErrInvalidWindow.Wrap("open time: %v", err)
	}
	closeAt, err := r.CloseTime.Minutes()
	if err != nil {
		return ErrInvalidWindow.Wrap("close time: %v", err)
	}
	if open >= closeAt {
		return ErrInvalidWindow.Wrap("open %s must be before close %s", r.OpenTime, r.CloseTime)
	}

	if r.SlotLengthMinutes < MinSlotLengthMinutes || r.SlotLengthMinutes > MaxSlotLengthMinutes {
		return ErrInvalidGranularity.Wrap("slot length must be in [%d, %d] minutes, got %d",
			MinSlotLengthMinutes, MaxSlotLengthMinutes, r.SlotLengthMinutes)
	}

	return nil
}

// IsFixed returns true for weekly rules
func (r *OperatingRule) IsFixed() bool {
	return r.Scope.Kind == RuleKindFixed
}

// IsIrregular returns true for single-date rules
func (r *OperatingRule) IsIrregular() bool {
	return r.Scope.Kind == RuleKindIrregular
}

// EffectiveRule picks the rule applying to date: an Irregular rule for that
// exact date wins over the Fixed rule for its weekday. Returns nil if none applies.
func EffectiveRule(rules []OperatingRule, date time.Time) *OperatingRule {
	var fixed *OperatingRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Scope.Matches(date) {
			continue
		}
		if rule.IsIrregular() {
			return rule
		}
		if fixed == nil {
			fixed = rule
		}
	}
	return fixed
}

// DateOf truncates t to its calendar date (midnight UTC)
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compares calendar dates ignoring time of day
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
