package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	ruleRepo "github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/rule"
	catalogClient "github.com/m04kA/SMC-SalonScheduler/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/generator"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
	"github.com/m04kA/SMC-SalonScheduler/pkg/types"
)

type mockRuleRepo struct {
	mock.Mock
}

func (m *mockRuleRepo) Upsert(ctx context.Context, rule *domain.OperatingRule) (*domain.OperatingRule, error) {
	args := m.Called(ctx, rule)
	if fn, ok := args.Get(0).(func(context.Context, *domain.OperatingRule) *domain.OperatingRule); ok {
		return fn(ctx, rule), args.Error(1)
	}
	if r, ok := args.Get(0).(*domain.OperatingRule); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) GetByScope(ctx context.Context, salonID int64, scope domain.RuleScope) (*domain.OperatingRule, error) {
	args := m.Called(ctx, salonID, scope)
	if r, ok := args.Get(0).(*domain.OperatingRule); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) ListForDate(ctx context.Context, salonID int64, date time.Time) ([]domain.OperatingRule, error) {
	args := m.Called(ctx, salonID, date)
	rules, _ := args.Get(0).([]domain.OperatingRule)
	return rules, args.Error(1)
}

func (m *mockRuleRepo) ListBySalon(ctx context.Context, salonID int64) ([]domain.OperatingRule, error) {
	args := m.Called(ctx, salonID)
	rules, _ := args.Get(0).([]domain.OperatingRule)
	return rules, args.Error(1)
}

func (m *mockRuleRepo) Delete(ctx context.Context, salonID, id int64) error {
	return m.Called(ctx, salonID, id).Error(0)
}

type mockSalonClient struct {
	mock.Mock
}

func (m *mockSalonClient) GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error) {
	args := m.Called(ctx, salonID)
	if s, ok := args.Get(0).(*domain.Salon); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, rule *domain.OperatingRule, today time.Time, horizonDays int) (*generator.Report, error) {
	args := m.Called(ctx, rule, today, horizonDays)
	if r, ok := args.Get(0).(*generator.Report); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGenerator) GenerateForSalon(ctx context.Context, salonID int64, today time.Time, horizonDays int) (*generator.Report, error) {
	args := m.Called(ctx, salonID, today, horizonDays)
	if r, ok := args.Get(0).(*generator.Report); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRuleRepo, *mockSalonClient, *mockGenerator) {
	repo := &mockRuleRepo{}
	salons := &mockSalonClient{}
	gen := &mockGenerator{}

	svc := NewService(repo, salons, gen, nopLogger{}, 30, time.UTC)
	svc.timeProvider = fixedTime{now: now}

	return svc, repo, salons, gen
}

func TestSetRule_DefaultsSlotLengthAndGenerates(t *testing.T) {
	svc, repo, salons, gen := newTestService()

	salons.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.OperatingRule) bool {
		return r.SlotLengthMinutes == domain.DefaultSlotLengthMinutes && r.Scope.Weekday == time.Monday
	})).Return(func(_ context.Context, r *domain.OperatingRule) *domain.OperatingRule {
		r.ID = 7
		return r
	}, nil).Once()
	gen.On("Generate", mock.Anything, mock.AnythingOfType("*domain.OperatingRule"), now, 30).
		Return(&generator.Report{SalonID: 1, DatesProcessed: 5, SlotsCreated: 15}, nil).Once()

	resp, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
		Kind:      "fixed",
		Weekday:   ptr.Ptr(1),
		OpenTime:  "09:00",
		CloseTime: "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.Rule.ID)
	assert.Equal(t, 20, resp.Rule.SlotLengthMinutes)
	require.NotNil(t, resp.Generation)
	assert.Equal(t, 15, resp.Generation.SlotsCreated)

	repo.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestSetRule_InvalidWindow(t *testing.T) {
	svc, repo, salons, _ := newTestService()

	_, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
		Kind:      "fixed",
		Weekday:   ptr.Ptr(1),
		OpenTime:  "18:00",
		CloseTime: "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	salons.AssertNotCalled(t, "GetSalon", mock.Anything, mock.Anything)
}

func TestSetRule_InvalidGranularity(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, length := range []int{0, -5, 4, 481} {
		_, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
			Kind:              "irregular",
			Date:              ptr.Ptr("2025-03-08"),
			OpenTime:          "09:00",
			CloseTime:         "18:00",
			SlotLengthMinutes: ptr.Ptr(length),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidGranularity, "length %d", length)
	}
}

func TestSetRule_SalonNotFound(t *testing.T) {
	svc, repo, salons, _ := newTestService()

	salons.On("GetSalon", mock.Anything, int64(9)).Return(nil, catalogClient.ErrSalonNotFound)

	_, err := svc.SetRule(context.Background(), 9, &models.SetRuleRequest{
		Kind:      "fixed",
		Weekday:   ptr.Ptr(2),
		OpenTime:  "09:00",
		CloseTime: "18:00",
	})
	assert.ErrorIs(t, err, domain.ErrSalonNotFound)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSetRule_GenerationFailureKeepsRule(t *testing.T) {
	svc, repo, salons, gen := newTestService()

	rule := &domain.OperatingRule{
		ID:                3,
		SalonID:           1,
		Scope:             domain.IrregularScope(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)),
		OpenTime:          types.MustTimeString("09:00"),
		CloseTime:         types.MustTimeString("12:00"),
		SlotLengthMinutes: 30,
	}

	salons.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(rule, nil)
	gen.On("Generate", mock.Anything, rule, now, 30).Return(nil, errors.New("db is down"))

	resp, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
		Kind:              "irregular",
		Date:              ptr.Ptr("2025-03-08"),
		OpenTime:          "09:00",
		CloseTime:         "12:00",
		SlotLengthMinutes: ptr.Ptr(30),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.Rule.ID)
	require.NotNil(t, resp.Rule.Date)
	assert.Equal(t, "2025-03-08", *resp.Rule.Date)
	assert.Nil(t, resp.Generation)
}

func TestSetRule_ConstraintViolation(t *testing.T) {
	svc, repo, salons, _ := newTestService()

	salons.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil, ruleRepo.ErrConstraintViolation)

	_, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
		Kind:      "fixed",
		Weekday:   ptr.Ptr(1),
		OpenTime:  "09:00",
		CloseTime: "10:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEffectiveRule_IrregularOverridesFixed(t *testing.T) {
	svc, repo, _, _ := newTestService()
	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	repo.On("ListForDate", mock.Anything, int64(1), saturday).Return([]domain.OperatingRule{
		{ID: 1, SalonID: 1, Scope: domain.FixedScope(time.Saturday), OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 20},
		{ID: 2, SalonID: 1, Scope: domain.IrregularScope(saturday), OpenTime: "10:00", CloseTime: "14:00", SlotLengthMinutes: 30},
	}, nil)

	rule, err := svc.EffectiveRule(context.Background(), 1, saturday)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rule.ID)
}

func TestEffectiveRule_NoRule(t *testing.T) {
	svc, repo, _, _ := newTestService()

	repo.On("ListForDate", mock.Anything, int64(1), mock.Anything).Return([]domain.OperatingRule{}, nil)

	_, err := svc.EffectiveRule(context.Background(), 1, now)
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestGetRule_NotFound(t *testing.T) {
	svc, repo, _, _ := newTestService()
	scope := domain.FixedScope(time.Sunday)

	repo.On("GetByScope", mock.Anything, int64(1), scope).Return(nil, ruleRepo.ErrRuleNotFound)

	_, err := svc.GetRule(context.Background(), 1, scope)
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestDeleteRule(t *testing.T) {
	svc, repo, _, _ := newTestService()

	repo.On("Delete", mock.Anything, int64(1), int64(5)).Return(nil)
	repo.On("Delete", mock.Anything, int64(1), int64(6)).Return(ruleRepo.ErrRuleNotFound)

	require.NoError(t, svc.DeleteRule(context.Background(), 1, 5))
	assert.ErrorIs(t, svc.DeleteRule(context.Background(), 1, 6), domain.ErrRuleNotFound)
}

func TestRegenerate(t *testing.T) {
	svc, _, salons, gen := newTestService()

	salons.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	gen.On("GenerateForSalon", mock.Anything, int64(1), now, 30).Return(&generator.Report{
		SalonID:        1,
		DatesProcessed: 3,
		SlotsCreated:   0,
		Conflicts:      []generator.Conflict{{Date: now, Message: "SlotConflict"}},
	}, nil)

	resp, err := svc.Regenerate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, "2025-03-03", resp.Conflicts[0].Date)
}

func TestGetRules(t *testing.T) {
	svc, repo, _, _ := newTestService()

	repo.On("ListBySalon", mock.Anything, int64(1)).Return([]domain.OperatingRule{
		{ID: 1, SalonID: 1, Scope: domain.FixedScope(time.Monday), OpenTime: "09:00", CloseTime: "18:00", SlotLengthMinutes: 20},
	}, nil)

	resp, err := svc.GetRules(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	require.NotNil(t, resp.Rules[0].Weekday)
	assert.Equal(t, 1, *resp.Rules[0].Weekday)
	assert.Nil(t, resp.Rules[0].Date)
}

func TestRealTimeProvider_UsesLocation(t *testing.T) {
	lineIslands := time.FixedZone("LINT", 14*60*60)

	assert.Equal(t, lineIslands, NewRealTimeProvider(lineIslands).Now().Location())
	assert.Equal(t, time.UTC, NewRealTimeProvider(nil).Now().Location())
}

func TestGenerationToday_InSalonLocation(t *testing.T) {
	lineIslands := time.FixedZone("LINT", 14*60*60)
	inLocation := func(today time.Time) bool {
		return today.Location() == lineIslands
	}

	repo := &mockRuleRepo{}
	salons := &mockSalonClient{}
	gen := &mockGenerator{}
	svc := NewService(repo, salons, gen, nopLogger{}, 30, lineIslands)

	salons.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.OperatingRule")).
		Return(func(_ context.Context, r *domain.OperatingRule) *domain.OperatingRule {
			r.ID = 9
			return r
		}, nil).Once()
	gen.On("Generate", mock.Anything, mock.AnythingOfType("*domain.OperatingRule"), mock.MatchedBy(inLocation), 30).
		Return(&generator.Report{SalonID: 1}, nil).Once()
	gen.On("GenerateForSalon", mock.Anything, int64(1), mock.MatchedBy(inLocation), 30).
		Return(&generator.Report{SalonID: 1}, nil).Once()

	_, err := svc.SetRule(context.Background(), 1, &models.SetRuleRequest{
		Kind:      "fixed",
		Weekday:   ptr.Ptr(2),
		OpenTime:  "09:00",
		CloseTime: "12:00",
	})
	require.NoError(t, err)

	_, err = svc.Regenerate(context.Background(), 1)
	require.NoError(t, err)

	gen.AssertExpectations(t)
}
