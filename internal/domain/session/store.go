package session

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/id"
	"github.com/mrtimely/backend/internal/shared/types"
	"github.com/mrtimely/backend/internal/storage"
)

// Store owns the live SessionState and mirrors it to the durable store
// after every transition.
type Store struct {
	mu      sync.Mutex
	state   types.SessionState
	kv      storage.Store
	clock   clock.Clock
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects a time source.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger injects a logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a session store and synchronously hydrates it from the
// durable store, so the first read never observes a flash of defaults.
func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		state: types.InitialSessionState(),
		kv:    kv,
		clock: clock.System(),
		log:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

// State returns a copy of the current session state.
func (s *Store) State() types.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// StartOptions carries optional StartSession parameters.
type StartOptions struct {
	StartTime int64  // epoch millis; 0 means now
	SessionID string // empty means keep previous or generate
}

// StartSession begins a new session, resetting all per-session fields.
// The session id defaults to the previous id, or a freshly generated one
// when none exists.
func (s *Store) StartSession(totalDuration int, opts StartOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := opts.StartTime
	if startTime == 0 {
		startTime = s.clock.Now().UnixMilli()
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		if s.state.SessionID != nil {
			sessionID = *s.state.SessionID
		} else {
			sessionID = id.NewSessionID().String()
		}
	}

	s.state.SessionID = &sessionID
	s.state.IsTimerRunning = true
	s.state.SessionStartTime = &startTime
	s.state.TotalDuration = totalDuration
	s.state.CurrentActivity = nil
	s.state.CurrentActivityStartTime = nil
	s.state.CompletedActivities = []types.Activity{}
	s.state.CurrentBreakStartTime = nil

	s.persist("start_session")
}

// ResetSession replaces the entire state with initial defaults.
func (s *Store) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = types.InitialSessionState()
	s.persist("reset_session")
}

// ActivityOptions carries optional SetCurrentActivity parameters.
type ActivityOptions struct {
	StartTime int64 // epoch millis; 0 means now
}

// SetCurrentActivity makes activity current. A non-nil activity clears any
// active break; a nil activity clears the current one without starting a
// break.
func (s *Store) SetCurrentActivity(activity *types.Activity, opts ActivityOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity == nil {
		s.state.CurrentActivity = nil
		s.state.CurrentActivityStartTime = nil
		s.persist("set_current_activity")
		return
	}

	startTime := opts.StartTime
	if startTime == 0 {
		startTime = s.clock.Now().UnixMilli()
	}

	a := *activity
	s.state.CurrentActivity = &a
	s.state.CurrentActivityStartTime = &startTime
	s.state.CurrentBreakStartTime = nil

	s.persist("set_current_activity")
}

// CompleteCurrentActivity appends the current activity to the completed
// list and clears it. No-op when no activity is current.
func (s *Store) CompleteCurrentActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentActivity == nil {
		return
	}

	s.state.CompletedActivities = append(s.state.CompletedActivities, *s.state.CurrentActivity)
	s.state.CurrentActivity = nil
	s.state.CurrentActivityStartTime = nil

	s.persist("complete_current_activity")
}

// BreakOptions carries optional StartBreak parameters.
type BreakOptions struct {
	StartTime int64 // epoch millis; 0 means now
}

// StartBreak clears any current activity and marks a break active.
func (s *Store) StartBreak(opts BreakOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := opts.StartTime
	if startTime == 0 {
		startTime = s.clock.Now().UnixMilli()
	}

	s.state.CurrentActivity = nil
	s.state.CurrentActivityStartTime = nil
	s.state.CurrentBreakStartTime = &startTime

	s.persist("start_break")
}

// EndBreak clears the break start time. No-op when no break is active.
func (s *Store) EndBreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentBreakStartTime == nil {
		return
	}

	s.state.CurrentBreakStartTime = nil
	s.persist("end_break")
}

// SetDrawerExpanded updates the drawer flag.
func (s *Store) SetDrawerExpanded(expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.DrawerExpanded = expanded
	s.persist("set_drawer_expanded")
}

// SetCurrentPage updates the current page.
func (s *Store) SetCurrentPage(page types.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.CurrentPage = page
	s.persist("set_current_page")
}

// AddOneMinute extends the session by 60 seconds.
func (s *Store) AddOneMinute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.TotalDuration += 60
	s.persist("add_one_minute")
}

// hydrate merges a persisted document over defaults. The document is
// trusted only if it is a JSON object with at least a totalDuration field.
func (s *Store) hydrate() {
	data, err := s.kv.Get(storage.SessionKey)
	if err != nil {
		if err != storage.ErrNotFound {
			s.log.Warn("Failed to hydrate session state", zap.Error(err))
		}
		return
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		s.log.Warn("Ignoring malformed session state", zap.Error(err))
		return
	}
	if _, ok := probe["totalDuration"]; !ok {
		s.log.Warn("Ignoring session state without totalDuration")
		return
	}

	state := types.InitialSessionState()
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warn("Ignoring malformed session state", zap.Error(err))
		return
	}
	if state.CompletedActivities == nil {
		state.CompletedActivities = []types.Activity{}
	}
	s.state = state
}

// persist mirrors the full state to the durable store. Best effort:
// failures are logged and swallowed so transitions never fail.
func (s *Store) persist(transition string) {
	if s.metrics != nil {
		s.metrics.RecordTransition(transition)
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Warn("Failed to serialize session state", zap.Error(err))
		return
	}
	if err := s.kv.Set(storage.SessionKey, data); err != nil {
		s.log.Warn("Failed to persist session state",
			zap.String("transition", transition),
			zap.Error(err),
		)
	}
}

func cloneState(state types.SessionState) types.SessionState {
	out := state
	out.SessionID = cloneStr(state.SessionID)
	out.SessionStartTime = cloneInt64(state.SessionStartTime)
	out.CurrentActivityStartTime = cloneInt64(state.CurrentActivityStartTime)
	out.CurrentBreakStartTime = cloneInt64(state.CurrentBreakStartTime)
	if state.CurrentActivity != nil {
		a := *state.CurrentActivity
		out.CurrentActivity = &a
	}
	out.CompletedActivities = append([]types.Activity{}, state.CompletedActivities...)
	return out
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
