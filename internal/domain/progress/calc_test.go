package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrtimely/backend/internal/shared/types"
)

func millis(t time.Time) *int64 {
	m := t.UnixMilli()
	return &m
}

func TestComputeNoSession(t *testing.T) {
	now := time.Now()

	got := Compute(nil, 180, now)
	assert.Equal(t, types.Progress{Elapsed: 0, Remaining: 180, Percent: 0}, got)
}

func TestComputeZeroDuration(t *testing.T) {
	now := time.Now()

	got := Compute(millis(now.Add(-time.Minute)), 0, now)
	assert.Equal(t, types.Progress{}, got)
}

func TestComputeTwoThirdsElapsed(t *testing.T) {
	now := time.Now()
	start := millis(now.Add(-120 * time.Second))

	// floor(120/180*100) = 66, not 67
	got := Compute(start, 180, now)
	assert.Equal(t, types.Progress{Elapsed: 120, Remaining: 60, Percent: 66}, got)
}

func TestComputeOvertimeClampsAt100(t *testing.T) {
	now := time.Now()
	start := millis(now.Add(-10 * time.Minute))

	got := Compute(start, 60, now)
	assert.Equal(t, 600, got.Elapsed)
	assert.Equal(t, 0, got.Remaining)
	assert.Equal(t, 100, got.Percent)
}

func TestComputeFutureStartClampsToZero(t *testing.T) {
	now := time.Now()
	start := millis(now.Add(time.Minute))

	got := Compute(start, 60, now)
	assert.Equal(t, 0, got.Elapsed)
	assert.Equal(t, 60, got.Remaining)
	assert.Equal(t, 0, got.Percent)
}

func TestComputePercentFloorProperty(t *testing.T) {
	now := time.Now()

	for elapsed := 0; elapsed <= 400; elapsed += 7 {
		for _, total := range []int{1, 60, 180, 300} {
			start := millis(now.Add(-time.Duration(elapsed) * time.Second))
			got := Compute(start, total, now)

			want := elapsed * 100 / total
			if want > 100 {
				want = 100
			}
			if got.Percent != want {
				t.Fatalf("elapsed=%d total=%d: percent=%d want=%d", elapsed, total, got.Percent, want)
			}
			if got.Percent > 100 {
				t.Fatalf("percent exceeded 100: %d", got.Percent)
			}
		}
	}
}
