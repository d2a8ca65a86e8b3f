package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/domain/session"
	"github.com/mrtimely/backend/internal/shared/types"
)

// StartSessionRequest begins a new timer session
type StartSessionRequest struct {
	TotalDuration int    `json:"totalDuration" binding:"required"`
	StartTime     int64  `json:"startTime"` // epoch millis, 0 means now
	SessionID     string `json:"sessionId"`
}

// SetActivityRequest switches the current activity. A null activity
// clears the current one.
type SetActivityRequest struct {
	Activity  *types.Activity `json:"activity"`
	StartTime int64           `json:"startTime"`
}

// StartBreakRequest begins a break
type StartBreakRequest struct {
	StartTime int64 `json:"startTime"`
}

// SetDrawerRequest toggles the timeline drawer
type SetDrawerRequest struct {
	Expanded bool `json:"expanded"`
}

// SetPageRequest navigates the client shell
type SetPageRequest struct {
	Page types.Page `json:"page" binding:"required"`
}

// GetState returns the full session state
func (h *Handlers) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.State())
}

// StartSession begins a session
func (h *Handlers) StartSession(c *gin.Context) {
	done := h.track("session", "start")

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		done("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start request"})
		return
	}
	if req.TotalDuration <= 0 {
		done("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "totalDuration must be positive"})
		return
	}

	h.sessions.StartSession(req.TotalDuration, session.StartOptions{
		StartTime: req.StartTime,
		SessionID: req.SessionID,
	})
	h.metrics.SetSessionActive(true)

	h.log.Info("Session started",
		zap.Int("total_duration", req.TotalDuration),
	)
	done("success")
	c.JSON(http.StatusOK, h.sessions.State())
}

// ResetSession restores the initial state
func (h *Handlers) ResetSession(c *gin.Context) {
	done := h.track("session", "reset")

	h.sessions.ResetSession()
	h.metrics.SetSessionActive(false)

	h.log.Info("Session reset")
	done("success")
	c.JSON(http.StatusOK, h.sessions.State())
}

// SetActivity switches or clears the current activity
func (h *Handlers) SetActivity(c *gin.Context) {
	var req SetActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity request"})
		return
	}

	h.sessions.SetCurrentActivity(req.Activity, session.ActivityOptions{
		StartTime: req.StartTime,
	})
	c.JSON(http.StatusOK, h.sessions.State())
}

// CompleteActivity moves the current activity to the completed list
func (h *Handlers) CompleteActivity(c *gin.Context) {
	h.sessions.CompleteCurrentActivity()
	c.JSON(http.StatusOK, h.sessions.State())
}

// StartBreak begins a break, clearing any current activity
func (h *Handlers) StartBreak(c *gin.Context) {
	var req StartBreakRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid break request"})
		return
	}

	h.sessions.StartBreak(session.BreakOptions{StartTime: req.StartTime})
	c.JSON(http.StatusOK, h.sessions.State())
}

// EndBreak ends the current break
func (h *Handlers) EndBreak(c *gin.Context) {
	h.sessions.EndBreak()
	c.JSON(http.StatusOK, h.sessions.State())
}

// SetDrawer toggles the timeline drawer
func (h *Handlers) SetDrawer(c *gin.Context) {
	var req SetDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid drawer request"})
		return
	}

	h.sessions.SetDrawerExpanded(req.Expanded)
	c.JSON(http.StatusOK, h.sessions.State())
}

// SetPage navigates to a page
func (h *Handlers) SetPage(c *gin.Context) {
	var req SetPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page request"})
		return
	}
	switch req.Page {
	case types.PageTimer, types.PageSummary, types.PageOther:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown page"})
		return
	}

	h.sessions.SetCurrentPage(req.Page)
	c.JSON(http.StatusOK, h.sessions.State())
}

// AddMinute extends the running session by sixty seconds
func (h *Handlers) AddMinute(c *gin.Context) {
	h.sessions.AddOneMinute()
	c.JSON(http.StatusOK, h.sessions.State())
}

// GetProgress returns the poller's latest derived progress
func (h *Handlers) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.poller.Current())
}

// SummaryRequest carries timeline entries to summarize. When absent, the
// last recovery snapshot's timeline is used.
type SummaryRequest struct {
	TimelineEntries []types.TimelineEntry `json:"timelineEntries"`
}

// GetSummary computes per-activity breakdowns and distribution stats
func (h *Handlers) GetSummary(c *gin.Context) {
	var req SummaryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid summary request"})
			return
		}
	}

	entries := req.TimelineEntries
	if entries == nil {
		if snapshot := h.snapshots.Load(); snapshot != nil {
			entries = snapshot.TimelineEntries
		}
	}

	c.JSON(http.StatusOK, h.reports.Build(entries))
}
