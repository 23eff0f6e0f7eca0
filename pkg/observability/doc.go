// Package observability provides structured logging, Prometheus metrics and
// health probes for the registry server.
//
// # Overview
//
// Logging uses stdlib slog with a JSON handler behind a small leveled
// wrapper. Metrics cover HTTP traffic plus the resolver itself: pass counts,
// durations, diagnostics by code and the enabled/disabled plugin gauges.
// Health probes are plain HTTP handlers suitable for k8s liveness and
// readiness checks on the separate health port.
//
// # Usage Example
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.ObserveResolve(status, duration)
package observability
