package recovery

import (
	"fmt"
	"time"
)

// FormatElapsedTime renders elapsed seconds as h:mm:ss, or m:ss when under
// an hour.
func FormatElapsedTime(elapsedSeconds int) string {
	hours := elapsedSeconds / 3600
	minutes := (elapsedSeconds % 3600) / 60
	seconds := elapsedSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatSessionAge renders how long ago a snapshot was saved, for display.
func FormatSessionAge(lastSaved string, now time.Time) string {
	saved, err := time.Parse(time.RFC3339Nano, lastSaved)
	if err != nil {
		if saved, err = time.Parse(time.RFC3339, lastSaved); err != nil {
			return "unknown"
		}
	}

	minutes := int(now.Sub(saved).Minutes())
	hours := minutes / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm ago", hours, minutes%60)
	}
	return fmt.Sprintf("%dm ago", minutes)
}
