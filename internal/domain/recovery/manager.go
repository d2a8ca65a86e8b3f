package recovery

import (
	"bytes"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/mrtimely/backend/internal/infrastructure/logging"
	"github.com/mrtimely/backend/internal/infrastructure/monitoring"
	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/id"
	"github.com/mrtimely/backend/internal/shared/types"
	"github.com/mrtimely/backend/internal/storage"
)

// DefaultSaveInterval is the auto-save cadence when none is configured.
const DefaultSaveInterval = 30 * time.Second

// Source supplies the current session shape for auto-save.
type Source func() types.SessionShape

// Manager persists recovery snapshots independently of the live session
// store. All storage failures are logged and swallowed.
type Manager struct {
	kv               storage.Store
	clock            clock.Clock
	log              *logging.Logger
	metrics          *monitoring.Metrics
	saveInterval     time.Duration
	autoSaveOnChange bool

	mu             sync.Mutex
	lastSaved      *time.Time
	lastSerialized []byte

	stop chan struct{}
	done chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects a time source.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger injects a logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(mc *monitoring.Metrics) Option {
	return func(m *Manager) { m.metrics = mc }
}

// WithSaveInterval sets the auto-save cadence.
func WithSaveInterval(d time.Duration) Option {
	return func(m *Manager) { m.saveInterval = d }
}

// WithAutoSaveOnChange enables an immediate save when Notify observes a
// changed shape, in addition to the interval saves.
func WithAutoSaveOnChange(enabled bool) Option {
	return func(m *Manager) { m.autoSaveOnChange = enabled }
}

// NewManager creates a snapshot manager over the given store.
func NewManager(kv storage.Store, opts ...Option) *Manager {
	m := &Manager{
		kv:               kv,
		clock:            clock.System(),
		log:              logging.NewNop(),
		saveInterval:     DefaultSaveInterval,
		autoSaveOnChange: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Available reports whether the underlying store is usable.
func (m *Manager) Available() bool { return m.kv.Available() }

// StorageKind names the storage mechanism backing snapshots.
func (m *Manager) StorageKind() string { return m.kv.Kind() }

// LastSaveTime returns when the last successful save happened, or nil.
func (m *Manager) LastSaveTime() *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSaved == nil {
		return nil
	}
	t := *m.lastSaved
	return &t
}

// Save persists a snapshot of the given shape. Shapes for sessions that
// have not started (TimeSet false) are skipped. Failures are logged,
// never returned.
func (m *Manager) Save(shape types.SessionShape) {
	if !shape.TimeSet {
		return
	}
	if !m.kv.Available() {
		// The nop store accepts writes without keeping them; recording a
		// save time would claim durability that does not exist.
		return
	}

	serialized, err := sonic.Marshal(shape)
	if err != nil {
		m.log.Warn("Failed to serialize session shape", zap.Error(err))
		return
	}

	snapshot := m.buildSnapshot(shape)
	data, err := sonic.Marshal(snapshot)
	if err != nil {
		m.log.Warn("Failed to serialize recovery snapshot", zap.Error(err))
		return
	}

	if err := m.kv.Set(storage.RecoveryKey, data); err != nil {
		m.log.Warn("Failed to save recovery snapshot", zap.Error(err))
		return
	}

	now := m.clock.Now()
	m.mu.Lock()
	m.lastSaved = &now
	m.lastSerialized = serialized
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SnapshotsSaved.Inc()
	}
}

// Load reads the last snapshot. Returns nil when none exists, the stored
// document is malformed, or its version is not understood (unknown
// versions are cleared so they cannot linger).
func (m *Manager) Load() *types.RecoverySnapshot {
	data, err := m.kv.Get(storage.RecoveryKey)
	if err != nil {
		if err != storage.ErrNotFound {
			m.log.Warn("Failed to load recovery snapshot", zap.Error(err))
		}
		return nil
	}

	var snapshot types.RecoverySnapshot
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		m.log.Warn("Ignoring malformed recovery snapshot", zap.Error(err))
		return nil
	}

	if snapshot.Version != types.SnapshotVersion {
		m.log.Warn("Clearing recovery snapshot with unknown version",
			zap.Int("version", snapshot.Version))
		m.Clear()
		return nil
	}

	return &snapshot
}

// Clear deletes the stored snapshot and resets change tracking.
func (m *Manager) Clear() {
	if err := m.kv.Remove(storage.RecoveryKey); err != nil {
		m.log.Warn("Failed to clear recovery snapshot", zap.Error(err))
		return
	}

	m.mu.Lock()
	m.lastSaved = nil
	m.lastSerialized = nil
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SnapshotsCleared.Inc()
	}
}

// Notify reports a (possibly) changed shape. When save-on-change is
// enabled and the shape differs from the last-saved one, it saves
// immediately rather than waiting for the next interval.
func (m *Manager) Notify(shape types.SessionShape) {
	if !m.autoSaveOnChange || !shape.TimeSet {
		return
	}
	if m.changed(shape) {
		m.Save(shape)
	}
}

// StartAutoSave begins interval saving from the given source. Each tick
// saves only when the shape has changed since the last save.
func (m *Manager) StartAutoSave(source Source) {
	m.stop = make(chan struct{})
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				shape := source()
				if shape.TimeSet && m.changed(shape) {
					m.Save(shape)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// StopAutoSave ends interval saving.
func (m *Manager) StopAutoSave() {
	if m.stop == nil {
		return
	}
	close(m.stop)
	<-m.done
	m.stop = nil
}

// changed is a structural-equality check against the last-saved shape.
func (m *Manager) changed(shape types.SessionShape) bool {
	serialized, err := sonic.Marshal(shape)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return !bytes.Equal(serialized, m.lastSerialized)
}

func (m *Manager) buildSnapshot(shape types.SessionShape) types.RecoverySnapshot {
	now := m.clock.Now().UTC().Format(time.RFC3339Nano)

	var currentID *string
	if shape.CurrentActivity != nil {
		v := shape.CurrentActivity.ID
		currentID = &v
	}

	return types.RecoverySnapshot{
		ID:                   id.NewSnapshotID().String(),
		StartTime:            now,
		TotalDuration:        shape.TotalDuration,
		ElapsedTime:          shape.ElapsedTime,
		CurrentActivityID:    currentID,
		TimerActive:          shape.TimerActive,
		Activities:           shape.Activities,
		CompletedActivityIDs: shape.CompletedActivityIDs,
		RemovedActivityIDs:   shape.RemovedActivityIDs,
		TimelineEntries:      shape.TimelineEntries,
		ActivityStates:       shape.ActivityStates,
		LastSaved:            now,
		Version:              types.SnapshotVersion,
	}
}
