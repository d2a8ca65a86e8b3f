package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/domain/guard"
	"github.com/mrtimely/backend/internal/shared/types"
)

// CheckRecovery reports whether a recoverable session exists. A stale
// snapshot is cleared as a side effect of the check.
func (h *Handlers) CheckRecovery(c *gin.Context) {
	done := h.track("recovery", "check")
	info := h.checker.Check()
	done("success")
	c.JSON(http.StatusOK, info)
}

// GetSnapshot returns the raw stored snapshot, 404 when none exists
func (h *Handlers) GetSnapshot(c *gin.Context) {
	snapshot := h.snapshots.Load()
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stored session"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// SaveSnapshot persists a client-supplied session shape. Shapes whose
// session has not begun are ignored.
func (h *Handlers) SaveSnapshot(c *gin.Context) {
	var shape types.SessionShape
	if err := c.ShouldBindJSON(&shape); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session shape"})
		return
	}

	h.snapshots.Save(shape)
	c.JSON(http.StatusOK, gin.H{
		"saved":     shape.TimeSet,
		"timestamp": h.snapshots.LastSaveTime(),
	})
}

// NotifySnapshot persists a shape only when it changed since the last
// save. This is the change-triggered path clients call on every mutation.
func (h *Handlers) NotifySnapshot(c *gin.Context) {
	var shape types.SessionShape
	if err := c.ShouldBindJSON(&shape); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session shape"})
		return
	}

	h.snapshots.Notify(shape)
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// ClearSnapshot removes the stored snapshot
func (h *Handlers) ClearSnapshot(c *gin.Context) {
	h.snapshots.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// GuardExecuteRequest asks the guard to run a destructive operation.
// Confirmed is the client's modal decision; when a recoverable session
// exists and no decision accompanies the request, the guard responds
// with 409 and the recovery details so the client can present its modal
// and retry.
type GuardExecuteRequest struct {
	Type        guard.OperationType `json:"type" binding:"required"`
	Description string              `json:"description"`
	Action      string              `json:"action"` // "" or "reset_session"
	Confirmed   *bool               `json:"confirmed"`
}

type decisionKey struct{}

// requestConfirmer resolves the modal decision carried on the request
// context. It backs the single long-lived guard so concurrent guarded
// requests still exclude each other.
type requestConfirmer struct{}

// NewRequestConfirmer returns the confirmer wired into the guard at
// server construction time.
func NewRequestConfirmer() guard.Confirmer { return requestConfirmer{} }

func (requestConfirmer) ShowModal(ctx context.Context, _ guard.ConfirmRequest) (bool, error) {
	confirmed, ok := ctx.Value(decisionKey{}).(bool)
	if !ok {
		return false, nil
	}
	return confirmed, nil
}

func (requestConfirmer) HideModal() {}

// GuardExecute runs an operation through the modification guard
func (h *Handlers) GuardExecute(c *gin.Context) {
	done := h.track("guard", "execute")

	var req GuardExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		done("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guard request"})
		return
	}
	switch req.Type {
	case guard.OpCreate, guard.OpEdit, guard.OpDelete, guard.OpAIGenerate:
	default:
		done("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown operation type"})
		return
	}

	// No decision yet: surface the pending warning instead of guessing
	if req.Confirmed == nil && h.guard.HasRecoverableSession() {
		done("pending")
		c.JSON(http.StatusConflict, gin.H{
			"requiresConfirmation": true,
			"recovery":             h.checker.Check(),
		})
		return
	}

	ctx := c.Request.Context()
	if req.Confirmed != nil {
		ctx = context.WithValue(ctx, decisionKey{}, *req.Confirmed)
	}

	var opErr error
	executed := h.guard.Execute(ctx, guard.Operation{
		Type:        req.Type,
		Description: req.Description,
		Operation: func(context.Context) error {
			return h.runGuardedAction(req.Action)
		},
		OnError: func(err error) { opErr = err },
	})

	if opErr != nil {
		h.log.Error("Guarded operation failed",
			zap.String("type", string(req.Type)),
			zap.Error(opErr),
		)
		done("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": opErr.Error()})
		return
	}

	done("success")
	c.JSON(http.StatusOK, gin.H{"executed": executed})
}

// runGuardedAction performs the server-side part of a guarded operation.
// An empty action means the mutation itself lives on the client; the
// guard protocol still decides whether it may proceed.
func (h *Handlers) runGuardedAction(action string) error {
	switch action {
	case "", "proceed":
		return nil
	case "reset_session":
		h.sessions.ResetSession()
		h.metrics.SetSessionActive(false)
		return nil
	default:
		return fmt.Errorf("unknown guarded action: %s", action)
	}
}
