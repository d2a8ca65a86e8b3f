// Package guard wraps destructive operations behind a confirmation gate
// conditioned on recoverable-session detection.
//
// Execute consults the recovery eligibility checker and, when a
// recoverable session exists, obtains user confirmation through an
// injected Confirmer before running the operation and clearing the
// snapshot. The guard always returns a boolean: true when the operation
// ran, false when it was skipped, cancelled, or failed.
//
// Failure modes are deliberate:
//   - Missing confirmer: logged as an error, execution proceeds fail-open
//     (the user is never blocked because a UI dependency failed to mount),
//     and the snapshot is still cleared.
//   - Re-entrant call while a confirmation is pending: logged as a
//     warning and rejected outright, never queued.
//   - Operation or confirmer error: normalized, passed to OnError, and
//     the guard returns false; the in-flight flag is always released.
//
// Cancellation is distinguishable from failure: both return false, but
// only failures invoke OnError.
package guard
