package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes a histogram for HTTP request durations, counters for attendance
// and leave events, a histogram for report generation durations and a counter
// for cache operations.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec // Histogram for HTTP request durations
	AttendanceEvents    *prometheus.CounterVec   // Counter for check-in and check-out outcomes
	LeaveEvents         *prometheus.CounterVec   // Counter for leave submissions and decisions
	ReportGeneration    *prometheus.HistogramVec // Histogram for report generation durations
	CacheOps            *prometheus.CounterVec   // Counter for employee cache operations
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		AttendanceEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_events_total",
			Help: "Total number of attendance events by outcome.",
		}, []string{"event", "status"}), // event: check_in, check_out; status: present, late, rejected
		LeaveEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "leave_events_total",
			Help: "Total number of leave events.",
		}, []string{"event", "value"}), // event: submitted, decided; value: leave type or decision
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "report_generation_duration_seconds",
			Help: "Duration of attendance report generation.",
		}, []string{"format"}), // format: json, xlsx
		CacheOps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of employee cache operations.",
		}, []string{"operation", "result"}), // operation: get, set, delete; result: hit, miss, success, error
	}
}

// AttendanceEvent counts one attendance event. A nil receiver is a no-op.
func (m *Metrics) AttendanceEvent(event, status string) {
	if m == nil {
		return
	}
	m.AttendanceEvents.WithLabelValues(event, status).Inc()
}

// LeaveEvent counts one leave event. A nil receiver is a no-op.
func (m *Metrics) LeaveEvent(event, value string) {
	if m == nil {
		return
	}
	m.LeaveEvents.WithLabelValues(event, value).Inc()
}

// ObserveReport records how long a report took. A nil receiver is a no-op.
func (m *Metrics) ObserveReport(format string, started time.Time) {
	if m == nil {
		return
	}
	m.ReportGeneration.WithLabelValues(format).Observe(time.Since(started).Seconds())
}

// CacheOp counts one cache operation. A nil receiver is a no-op.
func (m *Metrics) CacheOp(operation, result string) {
	if m == nil {
		return
	}
	m.CacheOps.WithLabelValues(operation, result).Inc()
}
