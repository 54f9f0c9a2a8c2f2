package list_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

type mockSlotRepo struct {
	mock.Mock
}

func (m *mockSlotRepo) List(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, error) {
	args := m.Called(ctx, filter)
	slots, _ := args.Get(0).([]domain.Slot)
	return slots, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(mockSlotRepo)
	from, to := monday, monday.AddDate(0, 0, 1)

	repo.On("List", ctx, domain.SlotFilter{SalonID: 1, DateFrom: &from, DateTo: &to, AvailableOnly: true}).
		Return([]domain.Slot{
			{ID: 1, SalonID: 1, Date: monday, TimeFrom: "09:00", TimeTo: "09:20", IsAvailable: true},
			{ID: 4, SalonID: 1, Date: to, TimeFrom: "09:00", TimeTo: "09:20", IsAvailable: true},
		}, nil)

	resp, err := NewUseCase(repo, nopLogger{}).Execute(ctx, &Request{
		SalonID:       1,
		DateFrom:      &from,
		DateTo:        &to,
		AvailableOnly: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "2025-03-03", resp.Slots[0].Date)
	assert.Equal(t, "09:20", resp.Slots[0].TimeTo)
	assert.Equal(t, "2025-03-04", resp.Slots[1].Date)
	repo.AssertExpectations(t)
}

func TestExecute_EmptyResultIsNotNil(t *testing.T) {
	ctx := context.Background()
	repo := new(mockSlotRepo)
	repo.On("List", ctx, domain.SlotFilter{SalonID: 2}).Return([]domain.Slot{}, nil)

	resp, err := NewUseCase(repo, nopLogger{}).Execute(ctx, &Request{SalonID: 2})

	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no salon", req: &Request{}},
		{name: "reversed range", req: &Request{SalonID: 1, DateFrom: ptr.Ptr(monday), DateTo: ptr.Ptr(monday.AddDate(0, 0, -1))}},
		{name: "range too wide", req: &Request{SalonID: 1, DateFrom: ptr.Ptr(monday), DateTo: ptr.Ptr(monday.AddDate(0, 0, domain.MaxHorizonDays+1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockSlotRepo)
			_, err := NewUseCase(repo, nopLogger{}).Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(mockSlotRepo)
	repo.On("List", ctx, domain.SlotFilter{SalonID: 1}).Return(nil, errors.New("connection refused"))

	_, err := NewUseCase(repo, nopLogger{}).Execute(ctx, &Request{SalonID: 1})

	assert.ErrorIs(t, err, ErrInternal)
}
