package types

// Page represents which page of the client shell is showing
type Page string

const (
	PageTimer   Page = "timer"
	PageSummary Page = "summary"
	PageOther   Page = "other"
)

// SessionState is the authoritative live session shape, owned exclusively
// by the session store. One instance exists per client; it is replaced
// wholesale on reset.
//
// Invariant: CurrentActivity and CurrentBreakStartTime are mutually
// exclusive. A session is never simultaneously on an activity and on a
// break.
type SessionState struct {
	SessionID                *string    `json:"sessionId"`
	IsTimerRunning           bool       `json:"isTimerRunning"`
	SessionStartTime         *int64     `json:"sessionStartTime"` // epoch millis
	TotalDuration            int        `json:"totalDuration"`    // seconds
	CurrentActivity          *Activity  `json:"currentActivity"`
	CurrentActivityStartTime *int64     `json:"currentActivityStartTime"` // epoch millis
	CompletedActivities      []Activity `json:"completedActivities"`
	CurrentBreakStartTime    *int64     `json:"currentBreakStartTime"` // epoch millis
	DrawerExpanded           bool       `json:"drawerExpanded"`
	CurrentPage              Page       `json:"currentPage"`
}

// InitialSessionState returns the state a fresh store starts from and the
// state ResetSession restores.
func InitialSessionState() SessionState {
	return SessionState{
		CompletedActivities: []Activity{},
		CurrentPage:         PageOther,
	}
}

// OnBreak reports whether a break is currently active.
func (s *SessionState) OnBreak() bool {
	return s.CurrentBreakStartTime != nil
}

// HasSession reports whether a session has been started.
func (s *SessionState) HasSession() bool {
	return s.SessionStartTime != nil
}

// Progress describes derived timer progress for display.
type Progress struct {
	Elapsed   int `json:"elapsed"`   // seconds
	Remaining int `json:"remaining"` // seconds
	Percent   int `json:"percent"`   // 0-100, floored, clamped at 100
}
