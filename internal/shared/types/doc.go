// Package types provides shared data structures for the Mr. Timely backend.
//
// This package defines the core shapes used across all session-lifecycle
// components, ensuring consistent persisted formats between the live state
// store and the recovery snapshot stream.
//
// Core Types:
//   - SessionState: Authoritative live session shape (write-through persisted)
//   - Activity: Named, colored unit of work within a session
//   - RecoverySnapshot: Richer session shape for crash/close recovery
//   - RecoveryInfo: Transient recovery-eligibility report
//   - TimelineEntry: One activity or break span on the session timeline
//
// State Management:
//   - Page: Current page enum (timer, summary, other)
//   - ActivityStatus: Activity lifecycle enum (pending, active, completed, removed)
//
// SessionState and RecoverySnapshot are persisted under distinct storage
// keys; the two streams are independent and may diverge in freshness.
package types
