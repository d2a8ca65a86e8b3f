package types

// ActivityStatus represents activity lifecycle states
type ActivityStatus string

const (
	ActivityPending   ActivityStatus = "pending"
	ActivityActive    ActivityStatus = "active"
	ActivityCompleted ActivityStatus = "completed"
	ActivityRemoved   ActivityStatus = "removed"
)

// Activity represents a named, colored unit of work within a session.
// Activities are owned by caller code; the session state references them
// but never mutates them.
type Activity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorIndex int    `json:"colorIndex"`
	CreatedAt  int64  `json:"createdAt"` // epoch millis
	IsActive   bool   `json:"isActive"`
}

// ActivityState tracks an activity's position in its lifecycle, recorded
// in recovery snapshots so a restored session can rebuild the state machine.
type ActivityState struct {
	ID     string         `json:"id"`
	Status ActivityStatus `json:"status"`
}

// TimelineEntry represents one activity or break span on the session
// timeline. EndTime is nil while the span is still open.
type TimelineEntry struct {
	ID         string    `json:"id"`
	ActivityID *string   `json:"activityId,omitempty"` // nil for breaks
	Title      string    `json:"title"`
	ColorIndex int       `json:"colorIndex"`
	StartTime  int64     `json:"startTime"` // epoch millis
	EndTime    *int64    `json:"endTime,omitempty"`
	Activity   *Activity `json:"activity,omitempty"`
}
