package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "specwatch"

// Metrics records check, change and notification outcomes.
//
// Per-source series carry both the source name and its URL; names may
// repeat across sources while URLs are unique.
type Metrics struct {
	registry      *prometheus.Registry
	checks        *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	endpoints     *prometheus.GaugeVec
	changes       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	lastChange    *prometheus.GaugeVec
}

// New creates a [Metrics] with a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Source checks by outcome (baseline, unchanged, changed, failed).",
		}, []string{"source", "url", "result"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of specification fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "url"}),
		endpoints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "endpoints",
			Help:      "Number of endpoints in the last known set.",
		}, []string{"source", "url"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "endpoint_changes_total",
			Help:      "Endpoints added or removed between checks.",
		}, []string{"source", "url", "kind"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by result.",
		}, []string{"result"}),
		lastChange: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_change_timestamp_seconds",
			Help:      "Unix time of the last detected change.",
		}, []string{"source", "url"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.checks,
		m.checkDuration,
		m.endpoints,
		m.changes,
		m.notifications,
		m.lastChange,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveCheck records one source check. A zero latency is not observed.
func (m *Metrics) ObserveCheck(source, url, result string, latency time.Duration) {
	m.checks.WithLabelValues(source, url, result).Inc()
	if latency > 0 {
		m.checkDuration.WithLabelValues(source, url).Observe(latency.Seconds())
	}
}

// SetEndpoints records the size of the last known endpoint set.
func (m *Metrics) SetEndpoints(source, url string, n int) {
	m.endpoints.WithLabelValues(source, url).Set(float64(n))
}

// ObserveChange records a detected change.
func (m *Metrics) ObserveChange(source, url string, added, removed int, at time.Time) {
	m.changes.WithLabelValues(source, url, "added").Add(float64(added))
	m.changes.WithLabelValues(source, url, "removed").Add(float64(removed))
	m.lastChange.WithLabelValues(source, url).Set(float64(at.Unix()))
}

// ObserveNotification records a delivery attempt.
func (m *Metrics) ObserveNotification(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.notifications.WithLabelValues(result).Inc()
}
