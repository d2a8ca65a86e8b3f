package summary

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
)

// BreakTitle labels timeline spans that have no activity attached.
const BreakTitle = "Break"

// ActivityBreakdown aggregates all timeline spans of one activity.
type ActivityBreakdown struct {
	ActivityID *string `json:"activityId,omitempty"`
	Title      string  `json:"title"`
	ColorIndex int     `json:"colorIndex"`
	Spans      int     `json:"spans"`
	Seconds    int     `json:"seconds"`
	Percent    int     `json:"percent"`
	IsBreak    bool    `json:"isBreak"`
}

// Stats describes the distribution of span durations across the session.
type Stats struct {
	SpanCount     int     `json:"spanCount"`
	TotalSeconds  int     `json:"totalSeconds"`
	MeanSeconds   float64 `json:"meanSeconds"`
	StdDevSeconds float64 `json:"stdDevSeconds"`
	MinSeconds    int     `json:"minSeconds"`
	MaxSeconds    int     `json:"maxSeconds"`
}

// Report is a full session summary: a breakdown per activity plus
// distribution stats over all spans.
type Report struct {
	Breakdowns   []ActivityBreakdown `json:"breakdowns"`
	BreakSeconds int                 `json:"breakSeconds"`
	Stats        Stats               `json:"stats"`
}

// Builder computes reports. Open spans are closed at the builder's clock.
type Builder struct {
	clock clock.Clock
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the clock used to close open spans.
func WithClock(c clock.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// NewBuilder returns a report builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{clock: clock.System()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build summarizes the given timeline entries. Entries with a zero or
// negative duration are skipped. The returned breakdowns are ordered by
// descending total seconds, breaks last among equals.
func (b *Builder) Build(entries []types.TimelineEntry) Report {
	now := b.clock.Now().UnixMilli()

	buckets := make(map[string]*ActivityBreakdown)
	var durations []float64
	total := 0
	breakSeconds := 0

	for _, entry := range entries {
		secs := spanSeconds(entry, now)
		if secs <= 0 {
			continue
		}
		durations = append(durations, float64(secs))
		total += secs

		key := BreakTitle
		isBreak := entry.ActivityID == nil
		if !isBreak {
			key = *entry.ActivityID
		} else {
			breakSeconds += secs
		}

		bk, ok := buckets[key]
		if !ok {
			bk = &ActivityBreakdown{
				ActivityID: entry.ActivityID,
				Title:      entryTitle(entry),
				ColorIndex: entry.ColorIndex,
				IsBreak:    isBreak,
			}
			buckets[key] = bk
		}
		bk.Spans++
		bk.Seconds += secs
	}

	breakdowns := make([]ActivityBreakdown, 0, len(buckets))
	for _, bk := range buckets {
		if total > 0 {
			bk.Percent = bk.Seconds * 100 / total
		}
		breakdowns = append(breakdowns, *bk)
	}
	sort.SliceStable(breakdowns, func(i, j int) bool {
		if breakdowns[i].Seconds != breakdowns[j].Seconds {
			return breakdowns[i].Seconds > breakdowns[j].Seconds
		}
		if breakdowns[i].IsBreak != breakdowns[j].IsBreak {
			return breakdowns[j].IsBreak
		}
		return breakdowns[i].Title < breakdowns[j].Title
	})

	return Report{
		Breakdowns:   breakdowns,
		BreakSeconds: breakSeconds,
		Stats:        buildStats(durations, total),
	}
}

func buildStats(durations []float64, total int) Stats {
	s := Stats{SpanCount: len(durations), TotalSeconds: total}
	if len(durations) == 0 {
		return s
	}
	s.MeanSeconds = stat.Mean(durations, nil)
	if len(durations) > 1 {
		s.StdDevSeconds = stat.StdDev(durations, nil)
	}
	min, max := durations[0], durations[0]
	for _, d := range durations[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	s.MinSeconds = int(min)
	s.MaxSeconds = int(max)
	return s
}

func spanSeconds(entry types.TimelineEntry, now int64) int {
	end := now
	if entry.EndTime != nil {
		end = *entry.EndTime
	}
	d := time.Duration(end-entry.StartTime) * time.Millisecond
	return int(d / time.Second)
}

func entryTitle(entry types.TimelineEntry) string {
	if entry.Title != "" {
		return entry.Title
	}
	if entry.Activity != nil && entry.Activity.Name != "" {
		return entry.Activity.Name
	}
	if entry.ActivityID == nil {
		return BreakTitle
	}
	return "Unknown Activity"
}
