// Package middleware provides HTTP middleware and session hooks for
// Weft servers: Prometheus metrics and OpenTelemetry tracing.
package middleware
