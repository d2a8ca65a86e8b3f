package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	Transitions    *prometheus.CounterVec
	SessionsActive prometheus.Gauge

	// Recovery metrics
	SnapshotsSaved   prometheus.Counter
	SnapshotsCleared prometheus.Counter
	RecoveryChecks   *prometheus.CounterVec

	// Guard metrics
	GuardOutcomes *prometheus.CounterVec

	// Component metrics
	ComponentCalls    *prometheus.CounterVec
	ComponentDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mrtimely_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mrtimely_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mrtimely_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Session metrics
		Transitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_session_transitions_total",
				Help: "Total number of session state transitions",
			},
			[]string{"transition"},
		),
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mrtimely_sessions_active",
				Help: "Whether a session is currently active (0 or 1)",
			},
		),

		// Recovery metrics
		SnapshotsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mrtimely_recovery_snapshots_saved_total",
				Help: "Total number of recovery snapshots written",
			},
		),
		SnapshotsCleared: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mrtimely_recovery_snapshots_cleared_total",
				Help: "Total number of recovery snapshots cleared",
			},
		),
		RecoveryChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_recovery_checks_total",
				Help: "Recovery eligibility checks by outcome",
			},
			[]string{"outcome"},
		),

		// Guard metrics
		GuardOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_guard_outcomes_total",
				Help: "Guarded operation outcomes",
			},
			[]string{"outcome"},
		),

		// Component metrics
		ComponentCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_component_calls_total",
				Help: "Total number of component calls",
			},
			[]string{"component", "op", "status"},
		),
		ComponentDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mrtimely_component_duration_seconds",
				Help:    "Component call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"component", "op"},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mrtimely_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mrtimely_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "mrtimely_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordTransition records a session state transition
func (m *Metrics) RecordTransition(transition string) {
	m.Transitions.WithLabelValues(transition).Inc()
}

// RecordComponentCall records a component call
func (m *Metrics) RecordComponentCall(component, op, status string, duration time.Duration) {
	m.ComponentCalls.WithLabelValues(component, op, status).Inc()
	m.ComponentDuration.WithLabelValues(component, op).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetSessionActive flags whether a session is currently running
func (m *Metrics) SetSessionActive(active bool) {
	if active {
		m.SessionsActive.Set(1)
	} else {
		m.SessionsActive.Set(0)
	}
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current aggregate values for the JSON stats endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
