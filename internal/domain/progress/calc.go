package progress

import (
	"time"

	"github.com/mrtimely/backend/internal/shared/types"
)

// Compute derives elapsed/remaining/percent from a session start time
// (epoch millis) and a total duration in seconds.
//
// Elapsed is floored to whole seconds and never negative. Remaining never
// goes below zero. Percent is floor(elapsed/total*100) clamped at 100, so
// overtime sessions report exactly 100.
func Compute(sessionStartTime *int64, totalDuration int, now time.Time) types.Progress {
	if sessionStartTime == nil || totalDuration <= 0 {
		return types.Progress{Remaining: totalDuration}
	}

	elapsed := int((now.UnixMilli() - *sessionStartTime) / 1000)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := totalDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	percent := elapsed * 100 / totalDuration
	if percent > 100 {
		percent = 100
	}

	return types.Progress{
		Elapsed:   elapsed,
		Remaining: remaining,
		Percent:   percent,
	}
}
