package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/platinummonkey/pinion/pkg/resolver"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Resolver metrics
	ResolvesTotal    *prometheus.CounterVec
	ResolveDuration  prometheus.Histogram
	DiagnosticsTotal *prometheus.CounterVec
	PluginsEnabled   prometheus.Gauge
	PluginsDisabled  prometheus.Gauge
	RegistryReloads  prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinion_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pinion_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ResolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinion_resolves_total",
				Help: "Total number of registry resolve passes",
			},
			[]string{"outcome"},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pinion_resolve_duration_seconds",
				Help:    "Registry resolve pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		DiagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pinion_resolve_diagnostics_total",
				Help: "Resolve diagnostics by code",
			},
			[]string{"code"},
		),
		PluginsEnabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinion_plugins_enabled",
				Help: "Number of enabled plugin descriptors after the last resolve",
			},
		),
		PluginsDisabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pinion_plugins_disabled",
				Help: "Number of disabled plugin descriptors after the last resolve",
			},
		),
		RegistryReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pinion_registry_reloads_total",
				Help: "Total number of registry reloads from the plugin directory",
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ResolvesTotal,
		m.ResolveDuration,
		m.DiagnosticsTotal,
		m.PluginsEnabled,
		m.PluginsDisabled,
		m.RegistryReloads,
	)
	return m
}

// ObserveResolve records one resolve pass: duration, outcome and the
// per-code diagnostic counts.
func (m *Metrics) ObserveResolve(status *resolver.Status, duration time.Duration) {
	outcome := "ok"
	if !status.OK() {
		outcome = "diagnostics"
	}
	m.ResolvesTotal.WithLabelValues(outcome).Inc()
	m.ResolveDuration.Observe(duration.Seconds())
	for _, d := range status.Diagnostics() {
		m.DiagnosticsTotal.WithLabelValues(d.Code).Inc()
	}
}

// SetPluginCounts records the enabled/disabled descriptor gauges.
func (m *Metrics) SetPluginCounts(enabled, disabled int) {
	m.PluginsEnabled.Set(float64(enabled))
	m.PluginsDisabled.Set(float64(disabled))
}

// Handler returns the Prometheus scrape handler for this metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
