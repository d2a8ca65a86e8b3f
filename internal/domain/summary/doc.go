// Package summary computes per-activity breakdowns and aggregate
// distribution statistics from a session's timeline entries.
package summary
