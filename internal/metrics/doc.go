// Package metrics exposes Prometheus metrics for the change monitor.
//
// [Metrics] owns its own registry so that several watchers (and tests) can
// coexist in one process. [Metrics.Handler] serves it for scraping.
package metrics
