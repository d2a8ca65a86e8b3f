/*
Package monitoring provides Prometheus-based metrics collection.

# Overview

Tracks HTTP requests, session state transitions, recovery snapshot
activity, guard outcomes, and WebSocket connections.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record domain events
	metrics.RecordTransition("start_session")
	metrics.SnapshotsSaved.Inc()

	// Time operations
	timer := monitoring.NewTimer(metrics, "guard", "execute")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
