package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewWithRegistry("scheduler", prometheus.NewRegistry())

	m.RecordReservation(ResultSuccess)
	m.RecordReservation(ResultSuccess)
	m.RecordReservation(ResultConflict)
	m.RecordRelease(ResultSuccess)
	m.AddGeneratedSlots(3)
	m.AddGeneratedSlots(0)
	m.RecordGenerationConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("scheduler", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("scheduler", ResultConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReleasesTotal.WithLabelValues("scheduler", ResultSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SlotsGeneratedTotal.WithLabelValues("scheduler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationConflictsTotal.WithLabelValues("scheduler")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordReservation(ResultSuccess)
		m.RecordRelease(ResultError)
		m.AddGeneratedSlots(10)
		m.RecordGenerationConflict()
	})
	assert.Equal(t, "", m.ServiceName())
}
