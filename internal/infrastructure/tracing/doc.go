/*
Package tracing provides lightweight request tracing.

# Overview

Implements span-based tracing following OpenTelemetry concepts but with a
minimal implementation: trace context propagation via HTTP headers, span
creation with parent-child relationships, and structured logging output.

# Usage

	// Create tracer
	tracer := tracing.New("backend", logger)

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Trace Format

Traces use standard HTTP headers for propagation:
- X-Trace-ID: Unique identifier for entire request flow
- X-Span-ID: Identifier for current operation
*/
package tracing
