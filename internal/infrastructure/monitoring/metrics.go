// Package monitoring provides Prometheus metrics for the directory service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Directory metrics
	ManifestFetches *prometheus.CounterVec
	LoadDuration    prometheus.Histogram
	PackagesLoaded  prometheus.Gauge
	TagsIndexed     prometheus.Gauge

	// Download count metrics
	CountLookups *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector. Collectors register against the
// default registry, so at most one Metrics may exist per process.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		ManifestFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_manifest_fetches_total",
				Help: "Manifest fetch attempts by outcome",
			},
			[]string{"outcome"},
		),
		LoadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "directory_load_duration_seconds",
				Help:    "Full directory load duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		PackagesLoaded: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_packages_loaded",
				Help: "Packages in the current directory",
			},
		),
		TagsIndexed: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_tags_indexed",
				Help: "Distinct tags in the tag index",
			},
		),

		CountLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_count_lookups_total",
				Help: "Download count resolutions by cache result",
			},
			[]string{"result"},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_ws_connections",
				Help: "Active WebSocket stream connections",
			},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "directory_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// RecordManifestFetch records a manifest fetch outcome ("success"/"failure").
func (m *Metrics) RecordManifestFetch(outcome string) {
	m.ManifestFetches.WithLabelValues(outcome).Inc()
}

// ObserveLoad records a completed directory load.
func (m *Metrics) ObserveLoad(duration time.Duration, packages, tags int) {
	m.LoadDuration.Observe(duration.Seconds())
	m.PackagesLoaded.Set(float64(packages))
	m.TagsIndexed.Set(float64(tags))
}

// RecordCountLookup records a download count resolution ("hit"/"miss").
func (m *Metrics) RecordCountLookup(result string) {
	m.CountLookups.WithLabelValues(result).Inc()
}
