// Package main is the entry point for the Mr. Timely backend server.
//
// The server owns the timer session lifecycle for the client shell:
// session state machine, write-through persistence, recovery snapshots,
// and guarded destructive operations.
//
// The server provides:
//   - REST API for session state and operations
//   - WebSocket streaming for timer progress
//   - Recovery snapshot protocol with eligibility checks
//   - Rate limiting and request metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML config file overlay
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# With a config file
//	./server -config /etc/mr-timely/config.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
