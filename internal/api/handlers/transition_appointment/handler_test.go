package transition_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/booking/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	var got int64
	confirm := func(_ context.Context, id int64) (*models.AppointmentResponse, error) {
		got = id
		if id == 2 {
			return nil, domain.ErrInvalidTransition.Wrap("finished -> confirmed")
		}
		return &models.AppointmentResponse{ID: id, Status: string(domain.StatusConfirmed)}, nil
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/confirm",
		NewHandler("confirm", confirm, nopLogger{}).Handle).Methods(http.MethodPatch)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/1/confirm", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), got)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/2/confirm", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
