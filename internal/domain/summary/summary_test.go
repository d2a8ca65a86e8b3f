package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
)

func span(activityID *string, title string, startSec, endSec int64) types.TimelineEntry {
	end := endSec * 1000
	return types.TimelineEntry{
		ID:         "tl_" + title,
		ActivityID: activityID,
		Title:      title,
		StartTime:  startSec * 1000,
		EndTime:    &end,
	}
}

func strptr(s string) *string { return &s }

func TestBuildKnownTimeline(t *testing.T) {
	writing := strptr("act-1")
	review := strptr("act-2")

	entries := []types.TimelineEntry{
		span(writing, "Writing", 0, 300),
		span(nil, "", 300, 360),
		span(review, "Review", 360, 460),
		span(writing, "Writing", 460, 760),
	}

	r := NewBuilder().Build(entries)

	require.Len(t, r.Breakdowns, 3)
	assert.Equal(t, "Writing", r.Breakdowns[0].Title)
	assert.Equal(t, 600, r.Breakdowns[0].Seconds)
	assert.Equal(t, 2, r.Breakdowns[0].Spans)
	assert.Equal(t, "Review", r.Breakdowns[1].Title)
	assert.Equal(t, 100, r.Breakdowns[1].Seconds)
	assert.Equal(t, BreakTitle, r.Breakdowns[2].Title)
	assert.True(t, r.Breakdowns[2].IsBreak)
	assert.Equal(t, 60, r.BreakSeconds)

	assert.Equal(t, 760, r.Stats.TotalSeconds)
	assert.Equal(t, 4, r.Stats.SpanCount)
	assert.InDelta(t, 190.0, r.Stats.MeanSeconds, 1e-9)
	assert.Equal(t, 60, r.Stats.MinSeconds)
	assert.Equal(t, 300, r.Stats.MaxSeconds)
}

func TestBuildPercentagesUseFloor(t *testing.T) {
	a := strptr("a")
	b := strptr("b")
	entries := []types.TimelineEntry{
		span(a, "A", 0, 120),
		span(b, "B", 120, 180),
	}

	r := NewBuilder().Build(entries)

	require.Len(t, r.Breakdowns, 2)
	assert.Equal(t, 66, r.Breakdowns[0].Percent)
	assert.Equal(t, 33, r.Breakdowns[1].Percent)
}

func TestBuildOrdersEqualSecondsDeterministically(t *testing.T) {
	a := strptr("a")
	b := strptr("b")
	entries := []types.TimelineEntry{
		span(b, "Zeta", 0, 60),
		span(nil, "", 60, 120),
		span(a, "Alpha", 120, 180),
	}

	r := NewBuilder().Build(entries)

	require.Len(t, r.Breakdowns, 3)
	assert.Equal(t, "Alpha", r.Breakdowns[0].Title)
	assert.Equal(t, "Zeta", r.Breakdowns[1].Title)
	assert.Equal(t, BreakTitle, r.Breakdowns[2].Title)
}

func TestBuildClosesOpenSpanAtClock(t *testing.T) {
	fake := clock.NewFake(time.UnixMilli(500_000))
	a := strptr("a")
	open := types.TimelineEntry{
		ID:         "tl_open",
		ActivityID: a,
		Title:      "Open",
		StartTime:  200_000,
	}

	r := NewBuilder(WithClock(fake)).Build([]types.TimelineEntry{open})

	require.Len(t, r.Breakdowns, 1)
	assert.Equal(t, 300, r.Breakdowns[0].Seconds)
}

func TestBuildSkipsEmptySpans(t *testing.T) {
	a := strptr("a")
	entries := []types.TimelineEntry{
		span(a, "A", 100, 100),
		span(a, "A", 200, 150),
		span(a, "A", 0, 10),
	}

	r := NewBuilder().Build(entries)

	require.Len(t, r.Breakdowns, 1)
	assert.Equal(t, 1, r.Breakdowns[0].Spans)
	assert.Equal(t, 10, r.Stats.TotalSeconds)
}

func TestBuildEmptyTimeline(t *testing.T) {
	r := NewBuilder().Build(nil)

	assert.Empty(t, r.Breakdowns)
	assert.Zero(t, r.Stats.SpanCount)
	assert.Zero(t, r.Stats.TotalSeconds)
	assert.Zero(t, r.Stats.MeanSeconds)
}

func TestBuildSingleSpanHasZeroStdDev(t *testing.T) {
	a := strptr("a")
	r := NewBuilder().Build([]types.TimelineEntry{span(a, "A", 0, 60)})

	assert.Zero(t, r.Stats.StdDevSeconds)
	assert.Equal(t, 60, r.Stats.MinSeconds)
	assert.Equal(t, 60, r.Stats.MaxSeconds)
}

func TestEntryTitleFallbacks(t *testing.T) {
	a := strptr("a")
	withActivity := types.TimelineEntry{
		ActivityID: a,
		Activity:   &types.Activity{ID: "a", Name: "From Activity"},
		StartTime:  0,
		EndTime:    int64ptr(1000),
	}
	bare := types.TimelineEntry{
		ActivityID: a,
		StartTime:  0,
		EndTime:    int64ptr(1000),
	}

	r := NewBuilder().Build([]types.TimelineEntry{withActivity})
	assert.Equal(t, "From Activity", r.Breakdowns[0].Title)

	r = NewBuilder().Build([]types.TimelineEntry{bare})
	assert.Equal(t, "Unknown Activity", r.Breakdowns[0].Title)
}

func int64ptr(v int64) *int64 { return &v }
