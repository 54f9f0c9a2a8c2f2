package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
	createAppointment "github.com/m04kA/SMC-SalonScheduler/internal/usecase/create_appointment"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*models.AppointmentResponse); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const body = `{"salonId":1,"customer":"anna","serviceIds":[10,11],"slotIds":[1,2,3]}`

func TestHandle_Created(t *testing.T) {
	uc := new(mockUseCase)
	uc.On("Execute", mock.Anything, &createAppointment.Request{
		SalonID:    1,
		Customer:   "anna",
		ServiceIDs: []int64{10, 11},
		SlotIDs:    []int64{1, 2, 3},
	}).Return(&models.AppointmentResponse{ID: 7, SalonID: 1, Status: "pending"}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{name: "count mismatch", err: domain.ErrSlotCountMismatch.Wrap("need 3"), wantStatus: http.StatusUnprocessableEntity, wantKind: "SlotCountMismatch"},
		{name: "lost race", err: domain.ErrConcurrentReservationConflict.Wrap("1 of 3"), wantStatus: http.StatusConflict, wantKind: "ConcurrentReservationConflict"},
		{name: "salon not found", err: domain.ErrSalonNotFound.Wrap("1"), wantStatus: http.StatusNotFound, wantKind: "SalonNotFound"},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := new(mockUseCase)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{"salonId":"x"`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
