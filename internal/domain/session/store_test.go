package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
	"github.com/mrtimely/backend/internal/storage"
)

func testActivity(name string) *types.Activity {
	return &types.Activity{
		ID:        "act-" + name,
		Name:      name,
		CreatedAt: time.Now().UnixMilli(),
		IsActive:  true,
	}
}

func TestStartSession(t *testing.T) {
	kv := storage.NewMemStore()
	s := NewStore(kv)

	s.StartSession(1800, StartOptions{})

	state := s.State()
	assert.True(t, state.IsTimerRunning)
	assert.Equal(t, 1800, state.TotalDuration)
	require.NotNil(t, state.SessionID)
	require.NotNil(t, state.SessionStartTime)
	assert.Empty(t, state.CompletedActivities)
}

func TestStartSessionKeepsPreviousID(t *testing.T) {
	s := NewStore(storage.NewMemStore())

	s.StartSession(60, StartOptions{SessionID: "first"})
	s.StartSession(120, StartOptions{})

	state := s.State()
	require.NotNil(t, state.SessionID)
	assert.Equal(t, "first", *state.SessionID)
}

func TestStartSessionResetsPerSessionFields(t *testing.T) {
	s := NewStore(storage.NewMemStore())

	s.StartSession(60, StartOptions{})
	s.SetCurrentActivity(testActivity("write"), ActivityOptions{})
	s.CompleteCurrentActivity()
	s.StartBreak(BreakOptions{})

	s.StartSession(120, StartOptions{})

	state := s.State()
	assert.Nil(t, state.CurrentActivity)
	assert.Nil(t, state.CurrentBreakStartTime)
	assert.Empty(t, state.CompletedActivities)
	assert.Equal(t, 120, state.TotalDuration)
}

func TestHydrationRoundTrip(t *testing.T) {
	kv := storage.NewMemStore()
	now := time.Now().UnixMilli()

	first := NewStore(kv)
	first.StartSession(180, StartOptions{StartTime: now, SessionID: "sess-1"})

	// A fresh store over the same kv must reproduce the persisted state
	second := NewStore(kv)
	state := second.State()

	assert.True(t, state.IsTimerRunning)
	assert.Equal(t, 180, state.TotalDuration)
	require.NotNil(t, state.SessionStartTime)
	assert.Equal(t, now, *state.SessionStartTime)
	require.NotNil(t, state.SessionID)
	assert.Equal(t, "sess-1", *state.SessionID)
}

func TestHydrationRejectsMalformedState(t *testing.T) {
	kv := storage.NewMemStore()
	require.NoError(t, kv.Set(storage.SessionKey, []byte(`"not an object"`)))

	s := NewStore(kv)
	state := s.State()

	assert.False(t, state.IsTimerRunning)
	assert.Equal(t, 0, state.TotalDuration)
}

func TestHydrationRequiresTotalDuration(t *testing.T) {
	kv := storage.NewMemStore()
	require.NoError(t, kv.Set(storage.SessionKey, []byte(`{"isTimerRunning":true}`)))

	s := NewStore(kv)
	assert.False(t, s.State().IsTimerRunning)
}

func TestActivityBreakMutualExclusion(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})

	s.SetCurrentActivity(testActivity("code"), ActivityOptions{})
	state := s.State()
	assert.NotNil(t, state.CurrentActivity)
	assert.Nil(t, state.CurrentBreakStartTime)

	s.StartBreak(BreakOptions{})
	state = s.State()
	assert.Nil(t, state.CurrentActivity)
	assert.NotNil(t, state.CurrentBreakStartTime)

	s.SetCurrentActivity(testActivity("review"), ActivityOptions{})
	state = s.State()
	assert.NotNil(t, state.CurrentActivity)
	assert.Nil(t, state.CurrentBreakStartTime)
}

func TestMutualExclusionHoldsAcrossSequences(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})

	steps := []func(){
		func() { s.SetCurrentActivity(testActivity("a"), ActivityOptions{}) },
		func() { s.StartBreak(BreakOptions{}) },
		func() { s.EndBreak() },
		func() { s.SetCurrentActivity(testActivity("b"), ActivityOptions{}) },
		func() { s.CompleteCurrentActivity() },
		func() { s.StartBreak(BreakOptions{}) },
		func() { s.SetCurrentActivity(nil, ActivityOptions{}) },
		func() { s.SetCurrentActivity(testActivity("c"), ActivityOptions{}) },
		func() { s.AddOneMinute() },
	}

	for i, step := range steps {
		step()
		state := s.State()
		if state.CurrentActivity != nil && state.CurrentBreakStartTime != nil {
			t.Fatalf("step %d: activity and break both active", i)
		}
	}
}

func TestSetNilActivityDoesNotStartBreak(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})
	s.SetCurrentActivity(testActivity("a"), ActivityOptions{})

	s.SetCurrentActivity(nil, ActivityOptions{})

	state := s.State()
	assert.Nil(t, state.CurrentActivity)
	assert.Nil(t, state.CurrentBreakStartTime)
}

func TestCompleteCurrentActivity(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})

	s.SetCurrentActivity(testActivity("write"), ActivityOptions{})
	s.CompleteCurrentActivity()

	state := s.State()
	require.Len(t, state.CompletedActivities, 1)
	assert.Equal(t, "write", state.CompletedActivities[0].Name)
	assert.Nil(t, state.CurrentActivity)
	assert.Nil(t, state.CurrentActivityStartTime)
}

func TestCompleteWithNoActivityIsNoOp(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})

	before := s.State()
	s.CompleteCurrentActivity()
	after := s.State()

	assert.Equal(t, before, after)
}

func TestEndBreakWithNoBreakIsNoOp(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})

	before := s.State()
	s.EndBreak()
	after := s.State()

	assert.Equal(t, before, after)
}

func TestUIBookkeeping(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(60, StartOptions{})

	s.SetDrawerExpanded(true)
	s.SetCurrentPage(types.PageTimer)
	s.AddOneMinute()

	state := s.State()
	assert.True(t, state.DrawerExpanded)
	assert.Equal(t, types.PageTimer, state.CurrentPage)
	assert.Equal(t, 120, state.TotalDuration)
}

func TestResetSession(t *testing.T) {
	s := NewStore(storage.NewMemStore())
	s.StartSession(600, StartOptions{})
	s.SetCurrentActivity(testActivity("a"), ActivityOptions{})
	s.SetDrawerExpanded(true)

	s.ResetSession()

	state := s.State()
	assert.Equal(t, types.InitialSessionState(), state)
}

func TestPersistFailureDoesNotBlockTransitions(t *testing.T) {
	// Nop store drops writes and reports unavailable; transitions must
	// still apply in memory.
	s := NewStore(storage.Nop())

	s.StartSession(600, StartOptions{})
	assert.True(t, s.State().IsTimerRunning)
}

func TestInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewStore(storage.NewMemStore(), WithClock(clock.NewFake(fixed)))

	s.StartSession(600, StartOptions{})

	state := s.State()
	require.NotNil(t, state.SessionStartTime)
	assert.Equal(t, fixed.UnixMilli(), *state.SessionStartTime)
}
