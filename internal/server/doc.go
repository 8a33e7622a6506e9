// Package server provides the HTTP status API for specwatch.
//
// This package is internal to specwatch and handles all HTTP concerns:
//
//   - REST API: JSON snapshot of every source at "/api/sources"
//   - Server-Sent Events: Real-time source updates at "/api/events"
//   - Metrics: Prometheus exposition at "/metrics"
//   - Liveness: "/healthz"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the specwatch library should not need to interact with this
// package directly. The server is started by [specwatch.Watcher.Start] when a
// port is configured.
package server
