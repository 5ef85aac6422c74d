// Package middleware provides HTTP middleware for Strand applications:
// Prometheus request metrics and OpenTelemetry tracing. Both wrap any
// http.Handler, so they compose with the App and with chi routers.
package middleware
