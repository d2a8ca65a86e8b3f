// Package http exposes the session core over a Gin REST surface: state
// reads, session operations, progress, recovery checks, and guarded
// destructive execution.
package http
