package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOperatingRule_Validate(t *testing.T) {
	tests := []struct {
		name     string
		rule     OperatingRule
		expected *Error
	}{
		{
			name: "valid fixed",
			rule: OperatingRule{Scope: FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 20},
		},
		{
			name: "trailing partial slot allowed",
			rule: OperatingRule{Scope: FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "10:10", SlotLengthMinutes: 20},
		},
		{
			name:     "open equals close",
			rule:     OperatingRule{Scope: FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "09:00", SlotLengthMinutes: 20},
			expected: ErrInvalidWindow,
		},
		{
			name:     "open after close",
			rule:     OperatingRule{Scope: IrregularScope(date(2025, 3, 1)), OpenTime: "18:00", CloseTime: "09:00", SlotLengthMinutes: 20},
			expected: ErrInvalidWindow,
		},
		{
			name:     "zero granularity",
			rule:     OperatingRule{Scope: FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 0},
			expected: ErrInvalidGranularity,
		},
		{
			name:     "granularity too large",
			rule:     OperatingRule{Scope: FixedScope(time.Monday), OpenTime: "00:00", CloseTime: "24:00", SlotLengthMinutes: 481},
			expected: ErrInvalidGranularity,
		},
		{
			name:     "irregular without date",
			rule:     OperatingRule{Scope: RuleScope{Kind: RuleKindIrregular}, OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 20},
			expected: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestEffectiveRule_IrregularOverridesFixed(t *testing.T) {
	monday := date(2025, 3, 3)
	rules := []OperatingRule{
		{ID: 1, Scope: FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 20},
		{ID: 2, Scope: IrregularScope(monday), OpenTime: "12:00", CloseTime: "14:00", SlotLengthMinutes: 30},
	}

	assert.Equal(t, int64(2), EffectiveRule(rules, monday).ID)
	assert.Equal(t, int64(1), EffectiveRule(rules, monday.AddDate(0, 0, 7)).ID)
	assert.Nil(t, EffectiveRule(rules, monday.AddDate(0, 0, 1)))
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusFinished))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusPending.CanTransitionTo(StatusFinished))
	assert.False(t, StatusFinished.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusConfirmed))

	assert.ElementsMatch(t, []AppointmentStatus{StatusPending, StatusConfirmed}, AllowedSources(StatusCancelled))
	assert.Equal(t, []AppointmentStatus{StatusConfirmed}, AllowedSources(StatusFinished))

	a := &Appointment{ID: 7, Status: StatusFinished}
	assert.ErrorIs(t, a.ValidateTransition(StatusCancelled), ErrInvalidTransition)
}

func TestError_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("reserve: %w", ErrConcurrentReservationConflict.Wrap("1 of 3 slots taken"))

	assert.ErrorIs(t, err, ErrConcurrentReservationConflict)
	assert.NotErrorIs(t, err, ErrSlotConflict)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "ConcurrentReservationConflict: 1 of 3 slots taken")

	cause := errors.New("db down")
	wrapped := ErrSlotConflict.WithCause(cause)
	assert.ErrorIs(t, wrapped, cause)

	assert.True(t, IsNotFound(ErrAppointmentNotFound.Wrap("id=1")))
	_, ok := AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestSlot_OverlapsAndSort(t *testing.T) {
	d := date(2025, 3, 3)
	a := Slot{SalonID: 1, Date: d, TimeFrom: "09:00", TimeTo: "09:20"}
	b := Slot{SalonID: 1, Date: d, TimeFrom: "09:10", TimeTo: "09:30"}
	c := Slot{SalonID: 1, Date: d, TimeFrom: "09:20", TimeTo: "09:40"}

	assert.True(t, a.Overlaps(&b))
	assert.False(t, a.Overlaps(&c))
	assert.Equal(t, 20, a.DurationMinutes())

	slots := []Slot{c, {SalonID: 1, Date: d.AddDate(0, 0, -1), TimeFrom: "17:00", TimeTo: "17:20"}, a}
	SortSlots(slots)
	assert.Equal(t, types.TimeString("17:00"), slots[0].TimeFrom)
	assert.Equal(t, types.TimeString("09:00"), slots[1].TimeFrom)
	assert.Equal(t, types.TimeString("09:20"), slots[2].TimeFrom)
}

func TestTotalPrice_IsExact(t *testing.T) {
	services := []Service{
		{Price: decimal.RequireFromString("0.10")},
		{Price: decimal.RequireFromString("0.20")},
		{Price: decimal.RequireFromString("1499.99")},
	}

	assert.True(t, decimal.RequireFromString("1500.29").Equal(TotalPrice(services)))
}
