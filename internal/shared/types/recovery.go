package types

// SnapshotVersion is the current recovery snapshot format version.
// Readers must treat documents with an unknown version as not recoverable.
const SnapshotVersion = 1

// RecoverySnapshot is the richer session shape persisted by the recovery
// stream, independent of the live session store's key. It carries enough
// context to rebuild the timeline and activity state machine after a crash
// or tab close.
type RecoverySnapshot struct {
	ID                   string          `json:"id"`
	StartTime            string          `json:"startTime"` // ISO-8601
	TotalDuration        int             `json:"totalDuration"`
	ElapsedTime          int             `json:"elapsedTime"` // seconds
	CurrentActivityID    *string         `json:"currentActivityId"`
	TimerActive          bool            `json:"timerActive"`
	Activities           []Activity      `json:"activities"`
	CompletedActivityIDs []string        `json:"completedActivityIds"`
	RemovedActivityIDs   []string        `json:"removedActivityIds"`
	TimelineEntries      []TimelineEntry `json:"timelineEntries"`
	ActivityStates       []ActivityState `json:"activityStates"`
	LastSaved            string          `json:"lastSaved"` // ISO-8601
	Version              int             `json:"version"`
}

// SessionShape is the caller-supplied view of the running session that the
// snapshot manager persists. TimeSet gates auto-save: no snapshot is written
// until the session has actually begun.
type SessionShape struct {
	TimeSet              bool            `json:"timeSet"`
	TotalDuration        int             `json:"totalDuration"`
	ElapsedTime          int             `json:"elapsedTime"`
	TimerActive          bool            `json:"timerActive"`
	CurrentActivity      *Activity       `json:"currentActivity"`
	TimelineEntries      []TimelineEntry `json:"timelineEntries"`
	CompletedActivityIDs []string        `json:"completedActivityIds"`
	RemovedActivityIDs   []string        `json:"removedActivityIds"`
	Activities           []Activity      `json:"activities"`
	ActivityStates       []ActivityState `json:"activityStates"`
}

// RecoveryInfo is the transient result of a recovery-eligibility check.
// It is computed on demand and never persisted.
type RecoveryInfo struct {
	HasRecoverableSession bool              `json:"hasRecoverableSession"`
	Session               *RecoverySnapshot `json:"session,omitempty"`
	Description           string            `json:"description,omitempty"`
	TimeElapsed           string            `json:"timeElapsed,omitempty"`
	CurrentActivityName   string            `json:"currentActivityName,omitempty"`
}
