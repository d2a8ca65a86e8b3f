package progress

import (
	"sync"
	"time"

	"github.com/mrtimely/backend/internal/shared/clock"
	"github.com/mrtimely/backend/internal/shared/types"
)

// MinInterval bounds the poller's update frequency.
const MinInterval = 250 * time.Millisecond

// Source supplies the current session state on each tick.
type Source func() types.SessionState

// Poller periodically re-derives progress from a session state source.
type Poller struct {
	source   Source
	interval time.Duration
	clock    clock.Clock
	onUpdate func(types.Progress)

	mu      sync.RWMutex
	current types.Progress

	stop chan struct{}
	done chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollerClock injects a time source.
func WithPollerClock(c clock.Clock) PollerOption {
	return func(p *Poller) { p.clock = c }
}

// WithInterval sets the tick interval. Values below MinInterval are
// raised to it.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithOnUpdate registers a callback invoked after each recomputation.
func WithOnUpdate(fn func(types.Progress)) PollerOption {
	return func(p *Poller) { p.onUpdate = fn }
}

// NewPoller creates a poller over the given state source.
func NewPoller(source Source, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		interval: time.Second,
		clock:    clock.System(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.interval < MinInterval {
		p.interval = MinInterval
	}
	return p
}

// Start computes progress once synchronously, then begins ticking.
// Safe to call once; Stop ends the ticking goroutine.
func (p *Poller) Start() {
	p.tick()

	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.tick()
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop ends polling and waits for the goroutine to exit.
func (p *Poller) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop = nil
}

// Current returns the most recently computed progress.
func (p *Poller) Current() types.Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Active reports whether the poller should recompute for the given state:
// a session exists and either the timer is running or a break is active.
func Active(state types.SessionState) bool {
	return state.HasSession() && (state.IsTimerRunning || state.OnBreak())
}

func (p *Poller) tick() {
	state := p.source()
	if !state.HasSession() {
		// The session was reset; stale progress must not outlive it.
		p.mu.Lock()
		cleared := p.current != (types.Progress{})
		p.current = types.Progress{}
		p.mu.Unlock()
		if cleared && p.onUpdate != nil {
			p.onUpdate(types.Progress{})
		}
		return
	}
	if !Active(state) {
		return
	}

	next := Compute(state.SessionStartTime, state.TotalDuration, p.clock.Now())

	p.mu.Lock()
	p.current = next
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(next)
	}
}
