// Package progress derives live timer progress from session state.
//
// Compute is a pure function over (sessionStartTime, totalDuration, now);
// the Poller wraps it in a bounded-rate periodic re-evaluation so display
// surfaces can refresh without forcing full state-store reads on every
// frame.
//
// The poller is active only while a session exists AND the timer is
// running or a break is active. It computes once synchronously on start,
// so a session whose start time is already in the past reports correct
// elapsed values before the first tick fires.
package progress
