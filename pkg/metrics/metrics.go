package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для доменных метрик
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics набор Prometheus метрик сервиса
// Все методы записи безопасны для nil-получателя (метрики выключены)
type Metrics struct {
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration      *prometheus.HistogramVec
	DBOpenConnections    *prometheus.GaugeVec
	DBInUseConnections   *prometheus.GaugeVec
	DBIdleConnections    *prometheus.GaugeVec
	DBWaitCount          *prometheus.GaugeVec
	DBWaitDurationSecond *prometheus.GaugeVec

	// Бизнес-метрики
	ReservationsTotal        *prometheus.CounterVec
	ReleasesTotal            *prometheus.CounterVec
	SlotsGeneratedTotal      *prometheus.CounterVec
	GenerationConflictsTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation", "status"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		DBWaitDurationSecond: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_duration_seconds",
			Help: "Total time blocked waiting for a new connection",
		}, []string{"service"}),

		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_reservations_total",
			Help: "Appointment reservation attempts by result",
		}, []string{"service", "result"}),

		ReleasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_releases_total",
			Help: "Appointment release attempts by result",
		}, []string{"service", "result"}),

		SlotsGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Number of slots materialized by the generator",
		}, []string{"service"}),

		GenerationConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_generation_conflicts_total",
			Help: "Number of dates skipped by the generator because of colliding slots",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBWaitDurationSecond,
		m.ReservationsTotal,
		m.ReleasesTotal,
		m.SlotsGeneratedTotal,
		m.GenerationConflictsTotal,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в label "service"
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// RecordReservation учитывает попытку резервирования слотов
func (m *Metrics) RecordReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(m.serviceName, result).Inc()
}

// RecordRelease учитывает попытку освобождения слотов
func (m *Metrics) RecordRelease(result string) {
	if m == nil {
		return
	}
	m.ReleasesTotal.WithLabelValues(m.serviceName, result).Inc()
}

// AddGeneratedSlots учитывает созданные генератором слоты
func (m *Metrics) AddGeneratedSlots(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.SlotsGeneratedTotal.WithLabelValues(m.serviceName).Add(float64(count))
}

// RecordGenerationConflict учитывает дату, пропущенную из-за конфликта слотов
func (m *Metrics) RecordGenerationConflict() {
	if m == nil {
		return
	}
	m.GenerationConflictsTotal.WithLabelValues(m.serviceName).Inc()
}
