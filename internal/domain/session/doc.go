// Package session provides the authoritative session state store.
//
// The store is a strict state machine over SessionState: starting and
// resetting sessions, setting and completing activities, starting and
// ending breaks, and UI bookkeeping (drawer, page, +1 minute). States are
// implied by field combinations; transitions are explicit methods.
//
// Persistence contract:
//   - Hydration is synchronous at construction. A loaded document is
//     trusted only if it is an object carrying at least totalDuration;
//     anything else falls back to defaults silently.
//   - Every transition triggers a full-state write-through to the durable
//     store under a fixed key, best effort. Failures are logged, never
//     returned to the caller.
//
// Invariant: an active activity and an active break never coexist.
// Setting an activity clears the break; starting a break clears the
// activity.
//
// Example Usage:
//
//	store := session.NewStore(kv, session.WithLogger(logger))
//	store.StartSession(1800, session.StartOptions{})
//	store.StartBreak(session.BreakOptions{})
//	state := store.State()
package session
