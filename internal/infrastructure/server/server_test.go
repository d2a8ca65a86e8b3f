package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtimely/backend/internal/domain/progress"
	"github.com/mrtimely/backend/internal/domain/recovery"
	"github.com/mrtimely/backend/internal/domain/session"
	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
	"github.com/mrtimely/backend/internal/storage"
)

func TestShapeSourceCarriesActivities(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(now)

	sessions := session.NewStore(storage.NewMemStore())
	sessions.StartSession(1800, session.StartOptions{StartTime: now.Add(-90 * time.Second).UnixMilli()})
	sessions.SetCurrentActivity(&types.Activity{ID: "act-1", Name: "Planning", ColorIndex: 1}, session.ActivityOptions{})
	sessions.CompleteCurrentActivity()
	sessions.SetCurrentActivity(&types.Activity{ID: "act-2", Name: "Writing", ColorIndex: 2}, session.ActivityOptions{})

	poller := progress.NewPoller(sessions.State, progress.WithPollerClock(fake))
	poller.Start()
	defer poller.Stop()

	s := &Server{sessions: sessions, poller: poller}
	shape := s.shapeSource()()

	assert.True(t, shape.TimeSet)
	assert.Equal(t, 90, shape.ElapsedTime)
	require.NotNil(t, shape.CurrentActivity)
	assert.Equal(t, "act-2", shape.CurrentActivity.ID)

	// Completed ids are carried separately from the activity list, and
	// the list includes the in-flight activity.
	assert.Equal(t, []string{"act-1"}, shape.CompletedActivityIDs)
	require.Len(t, shape.Activities, 2)
	assert.Equal(t, "Planning", shape.Activities[0].Name)
	assert.Equal(t, "Writing", shape.Activities[1].Name)
}

func TestShapeSourceRestoresThroughRecovery(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(now)

	sessions := session.NewStore(storage.NewMemStore())
	sessions.StartSession(1800, session.StartOptions{StartTime: now.Add(-90 * time.Second).UnixMilli()})
	sessions.SetCurrentActivity(&types.Activity{ID: "act-1", Name: "Planning", ColorIndex: 1}, session.ActivityOptions{})
	sessions.CompleteCurrentActivity()
	sessions.SetCurrentActivity(&types.Activity{ID: "act-2", Name: "Writing", ColorIndex: 2}, session.ActivityOptions{})

	poller := progress.NewPoller(sessions.State, progress.WithPollerClock(fake))
	poller.Start()
	defer poller.Stop()

	s := &Server{sessions: sessions, poller: poller}

	snapshots := recovery.NewManager(storage.NewMemStore())
	snapshots.Save(s.shapeSource()())

	info := recovery.NewChecker(snapshots).Check()
	require.True(t, info.HasRecoverableSession)
	assert.Equal(t, "Writing", info.CurrentActivityName)
	assert.Equal(t, "1:30", info.TimeElapsed)
	assert.Contains(t, info.Description, "Writing")

	require.NotNil(t, info.Session)
	assert.Equal(t, []string{"act-1"}, info.Session.CompletedActivityIDs)
}
