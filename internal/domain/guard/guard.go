package guard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/domain/recovery"
	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
)

// OperationType classifies a guarded destructive operation.
type OperationType string

const (
	OpCreate     OperationType = "create"
	OpEdit       OperationType = "edit"
	OpDelete     OperationType = "delete"
	OpAIGenerate OperationType = "ai-generate"
)

// defaultDescriptions are used when the caller omits a description.
var defaultDescriptions = map[OperationType]string{
	OpCreate:     "creating a new activity",
	OpEdit:       "editing an activity",
	OpDelete:     "deleting an activity",
	OpAIGenerate: "replacing activities with an AI-generated plan",
}

// ConfirmRequest is the payload passed to the confirmation collaborator.
type ConfirmRequest struct {
	OperationType        OperationType `json:"operationType"`
	OperationDescription string        `json:"operationDescription"`
}

// Confirmer collects a user decision for a guarded operation. ShowModal
// blocks until the user decides; HideModal force-dismisses a pending
// request, resolving it to false.
type Confirmer interface {
	ShowModal(ctx context.Context, req ConfirmRequest) (bool, error)
	HideModal()
}

// Operation describes one guarded execution.
type Operation struct {
	Type        OperationType
	Description string

	// Operation is the destructive action to run once the gate clears.
	Operation func(ctx context.Context) error

	OnSuccess func()
	OnCancel  func()
	OnError   func(error)
}

// Guard gates destructive operations on recoverable-session detection.
type Guard struct {
	checker   *recovery.Checker
	snapshots *recovery.Manager
	confirmer Confirmer

	enableWarnings bool
	shouldWarn     func() bool // optional eligibility override

	log     *logging.Logger
	metrics *monitoring.Metrics

	mu       sync.Mutex
	inFlight bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithConfirmer injects the confirmation collaborator.
func WithConfirmer(c Confirmer) Option {
	return func(g *Guard) { g.confirmer = c }
}

// WithWarningsEnabled toggles the confirmation gate entirely. Disabled
// guards execute directly and still clear the snapshot.
func WithWarningsEnabled(enabled bool) Option {
	return func(g *Guard) { g.enableWarnings = enabled }
}

// WithShouldWarn overrides recoverable-session detection.
func WithShouldWarn(fn func() bool) Option {
	return func(g *Guard) { g.shouldWarn = fn }
}

// WithLogger injects a logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *Guard) { g.log = l }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(g *Guard) { g.metrics = m }
}

// New creates a guard over the given eligibility checker and snapshot
// manager.
func New(checker *recovery.Checker, snapshots *recovery.Manager, opts ...Option) *Guard {
	g := &Guard{
		checker:        checker,
		snapshots:      snapshots,
		enableWarnings: true,
		log:            logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasRecoverableSession reports whether a guarded operation would
// currently require confirmation.
func (g *Guard) HasRecoverableSession() bool {
	if g.shouldWarn != nil {
		return g.shouldWarn()
	}
	return g.checker.Check().HasRecoverableSession
}

// ClearRecoverableSession drops the current snapshot. Cleanup only;
// failures are already swallowed by the manager.
func (g *Guard) ClearRecoverableSession() {
	g.snapshots.Clear()
}

// Execute runs op behind the confirmation gate. It returns true when the
// operation ran and false when it was skipped, cancelled, or failed.
func (g *Guard) Execute(ctx context.Context, op Operation) bool {
	if op.Operation == nil {
		g.log.Warn("Guarded execute called without an operation")
		return false
	}

	if !g.enableWarnings {
		return g.run(ctx, op, true)
	}

	// A second call while a confirmation is pending is rejected, not
	// queued.
	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		g.log.Warn("Guarded operation already awaiting confirmation",
			zap.String("operation_type", string(op.Type)))
		g.record("rejected_reentrant")
		return false
	}
	g.inFlight = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.inFlight = false
		g.mu.Unlock()
	}()

	if !g.HasRecoverableSession() {
		// Nothing recoverable existed, so there is no snapshot to clear
		return g.run(ctx, op, false)
	}

	if g.confirmer == nil {
		g.log.Error("Confirmation collaborator unavailable, executing without confirmation",
			zap.String("operation_type", string(op.Type)))
		return g.run(ctx, op, true)
	}

	confirmed, err := g.confirmer.ShowModal(ctx, ConfirmRequest{
		OperationType:        op.Type,
		OperationDescription: g.description(op),
	})
	if err != nil {
		g.fail(op, fmt.Errorf("confirmation failed: %w", err))
		return false
	}

	if !confirmed {
		g.record("cancelled")
		if op.OnCancel != nil {
			op.OnCancel()
		}
		return false
	}

	return g.run(ctx, op, true)
}

// run executes the operation and, when clearSnapshot is set, drops the
// recovery snapshot after success.
func (g *Guard) run(ctx context.Context, op Operation, clearSnapshot bool) bool {
	if err := op.Operation(ctx); err != nil {
		g.fail(op, err)
		return false
	}

	if clearSnapshot {
		g.snapshots.Clear()
	}

	g.record("executed")
	if op.OnSuccess != nil {
		op.OnSuccess()
	}
	return true
}

func (g *Guard) fail(op Operation, err error) {
	g.log.Error("Guarded operation failed",
		zap.String("operation_type", string(op.Type)),
		zap.Error(err),
	)
	g.record("failed")
	if op.OnError != nil {
		op.OnError(err)
	}
}

func (g *Guard) description(op Operation) string {
	if op.Description != "" {
		return op.Description
	}
	if d, ok := defaultDescriptions[op.Type]; ok {
		return d
	}
	return string(op.Type)
}

func (g *Guard) record(outcome string) {
	if g.metrics != nil {
		g.metrics.GuardOutcomes.WithLabelValues(outcome).Inc()
	}
}
