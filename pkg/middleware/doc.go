// Package middleware provides HTTP middleware for fern servers:
// Prometheus metrics and OpenTelemetry tracing.
//
// Both are plain func(http.Handler) http.Handler wrappers and slot into a
// chi router's Use chain in any order.
package middleware
