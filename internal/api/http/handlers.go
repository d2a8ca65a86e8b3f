package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrtimely/backend/internal/domain/guard"
	"github.com/mrtimely/backend/internal/domain/progress"
	"github.com/mrtimely/backend/internal/domain/recovery"
	"github.com/mrtimely/backend/internal/domain/session"
	"github.com/mrtimely/backend/internal/domain/summary"
	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
)

// Handlers bundles the session core components behind the REST surface
type Handlers struct {
	sessions  *session.Store
	snapshots *recovery.Manager
	checker   *recovery.Checker
	guard     *guard.Guard
	poller    *progress.Poller
	reports   *summary.Builder
	metrics   *monitoring.Metrics
	log       *logging.Logger
	started   time.Time
}

// NewHandlers creates the handler set
func NewHandlers(
	sessions *session.Store,
	snapshots *recovery.Manager,
	checker *recovery.Checker,
	g *guard.Guard,
	poller *progress.Poller,
	metrics *monitoring.Metrics,
	log *logging.Logger,
) *Handlers {
	return &Handlers{
		sessions:  sessions,
		snapshots: snapshots,
		checker:   checker,
		guard:     g,
		poller:    poller,
		reports:   summary.NewBuilder(),
		metrics:   metrics,
		log:       log.Named("http"),
		started:   time.Now(),
	}
}

// Root returns service identification
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "mr-timely-backend",
		"version": "1.0.0",
		"status":  "running",
	})
}

// Health returns service health including the storage tier in use
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"uptime_seconds":    time.Since(h.started).Seconds(),
		"storage_kind":      h.snapshots.StorageKind(),
		"storage_available": h.snapshots.Available(),
		"timestamp":         time.Now().Unix(),
	})
}

// Stats returns aggregate request metrics as JSON
func (h *Handlers) Stats(c *gin.Context) {
	snap := h.metrics.Snapshot()

	var avgLatencyMs float64
	if snap.RequestCount > 0 {
		avgLatencyMs = snap.TotalDuration / float64(snap.RequestCount) * 1000
	}
	var errorRate float64
	if snap.TotalRequests > 0 {
		errorRate = float64(snap.TotalErrors) / float64(snap.TotalRequests)
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp":          time.Now(),
		"total_requests":     snap.TotalRequests,
		"total_errors":       snap.TotalErrors,
		"error_rate":         errorRate,
		"average_latency_ms": avgLatencyMs,
		"active_connections": snap.ActiveConnections,
		"uptime_seconds":     time.Since(h.started).Seconds(),
	})
}

// track records a component call duration around a handler body
func (h *Handlers) track(component, op string) func(status string) {
	timer := monitoring.NewTimer(h.metrics, component, op)
	return timer.Stop
}
