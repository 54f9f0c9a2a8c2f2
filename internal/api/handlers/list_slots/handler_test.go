package list_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	listSlots "github.com/m04kA/SMC-SalonScheduler/internal/usecase/list_slots"
)

type stubUseCase struct {
	req *listSlots.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *listSlots.Request) (*listSlots.Response, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &listSlots.Response{SalonID: req.SalonID, Slots: []listSlots.Slot{}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_ParsesQuery(t *testing.T) {
	uc := &stubUseCase{}

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/slots?salon=3&date_from=2025-03-03&date_to=2025-03-05&available_only=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(3), uc.req.SalonID)
	assert.True(t, uc.req.AvailableOnly)
	require.NotNil(t, uc.req.DateFrom)
	require.NotNil(t, uc.req.DateTo)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), *uc.req.DateFrom)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), *uc.req.DateTo)
}

func TestHandle_BadQuery(t *testing.T) {
	for _, target := range []string{
		"/api/v1/slots",
		"/api/v1/slots?salon=x",
		"/api/v1/slots?salon=1&date_from=03.03.2025",
		"/api/v1/slots?salon=1&available_only=maybe",
	} {
		uc := &stubUseCase{}
		w := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Nil(t, uc.req, target)
	}
}

func TestHandle_ReversedRange(t *testing.T) {
	uc := &stubUseCase{err: domain.ErrInvalidInput.Wrap("date_to is before date_from")}

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/slots?salon=1&date_from=2025-03-05&date_to=2025-03-03", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"InvalidInput"`)
}
