package recovery

import (
	"fmt"
	"time"

	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
)

// DefaultMaxRecoveryAge is the eligibility window when none is configured.
const DefaultMaxRecoveryAge = 4 * time.Hour

// UnknownActivityName labels a current activity whose id cannot be
// resolved from the snapshot's activity list.
const UnknownActivityName = "Unknown Activity"

// Checker decides whether a stored snapshot is safe to offer as a
// recoverable session.
type Checker struct {
	manager *Manager
	clock   clock.Clock
	maxAge  time.Duration
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckerClock injects a time source.
func WithCheckerClock(c clock.Clock) CheckerOption {
	return func(ch *Checker) { ch.clock = c }
}

// WithMaxAge sets the eligibility window.
func WithMaxAge(d time.Duration) CheckerOption {
	return func(ch *Checker) { ch.maxAge = d }
}

// NewChecker creates a checker over the given snapshot manager.
func NewChecker(manager *Manager, opts ...CheckerOption) *Checker {
	ch := &Checker{
		manager: manager,
		clock:   clock.System(),
		maxAge:  DefaultMaxRecoveryAge,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Check loads the last snapshot and reports whether it is recoverable.
// A snapshot older than the eligibility window is cleared as a side
// effect so stale data never lingers.
func (ch *Checker) Check() types.RecoveryInfo {
	snapshot := ch.manager.Load()
	if snapshot == nil {
		return types.RecoveryInfo{}
	}

	if !ch.Recoverable(snapshot) {
		ch.manager.Clear()
		if m := ch.manager.metrics; m != nil {
			m.RecoveryChecks.WithLabelValues("stale").Inc()
		}
		return types.RecoveryInfo{}
	}

	timeElapsed := FormatElapsedTime(snapshot.ElapsedTime)

	var description, activityName string
	if snapshot.CurrentActivityID != nil {
		activityName = resolveActivityName(snapshot, *snapshot.CurrentActivityID)
		description = fmt.Sprintf("You had an active timer session (%s - %s elapsed)", activityName, timeElapsed)
	} else {
		description = fmt.Sprintf("You had a timer session (%s elapsed)", timeElapsed)
	}

	if m := ch.manager.metrics; m != nil {
		m.RecoveryChecks.WithLabelValues("recoverable").Inc()
	}

	return types.RecoveryInfo{
		HasRecoverableSession: true,
		Session:               snapshot,
		Description:           description,
		TimeElapsed:           timeElapsed,
		CurrentActivityName:   activityName,
	}
}

// Recoverable reports whether the snapshot's age is within the window.
func (ch *Checker) Recoverable(snapshot *types.RecoverySnapshot) bool {
	saved, err := time.Parse(time.RFC3339Nano, snapshot.LastSaved)
	if err != nil {
		// Try the second-precision form before giving up
		saved, err = time.Parse(time.RFC3339, snapshot.LastSaved)
		if err != nil {
			return false
		}
	}
	return ch.clock.Now().Sub(saved) <= ch.maxAge
}

func resolveActivityName(snapshot *types.RecoverySnapshot, activityID string) string {
	for _, a := range snapshot.Activities {
		if a.ID == activityID {
			return a.Name
		}
	}
	return UnknownActivityName
}
