// Package recovery provides the crash/close recovery persistence stream.
//
// The snapshot manager persists a richer session shape than the live
// session store, under its own storage key, on an interval and on
// meaningful change. The two streams are independent and may diverge in
// freshness.
//
// Components:
//   - Manager: interval + change-triggered snapshot saves, manual
//     Save/Load/Clear, storage availability reporting
//   - Checker: decides from a snapshot's age and shape whether it is safe
//     to offer as a recoverable session
//
// Auto-save is gated on the shape's TimeSet flag, so no snapshot is ever
// created for a session that has not started. Change detection is a
// serialized structural-equality check against the last-saved shape.
//
// Storage failures are caught and logged; the manager degrades to a no-op
// persistence layer rather than surfacing errors to the caller.
package recovery
