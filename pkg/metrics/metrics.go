package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seasonality"

// Metrics holds the application collectors on a private registry
// ⭐ SSOT: every collector is registered here
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal      *prometheus.CounterVec
	BuildDuration    prometheus.Histogram
	BuildRows        prometheus.Gauge
	DirectoryLatency *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates the collectors, including Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BuildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Feature-table builds partitioned by country and outcome",
		}, []string{"country", "outcome"}),

		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time taken to build one feature table",
			Buckets:   prometheus.DefBuckets,
		}),

		BuildRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_rows",
			Help:      "Rows in the most recently built feature table",
		}),

		DirectoryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "request_duration_seconds",
			Help:      "Holiday directory call latency partitioned by operation",
		}, []string{"operation"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests partitioned by route and status code",
		}, []string{"route", "code"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency partitioned by route",
		}, []string{"route"}),
	}
}

// ObserveBuild records one finished build
func (m *Metrics) ObserveBuild(country string, started time.Time, rows int, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.BuildsTotal.WithLabelValues(country, outcome).Inc()
	m.BuildDuration.Observe(time.Since(started).Seconds())
	if err == nil {
		m.BuildRows.Set(float64(rows))
	}
}

// ObserveDirectory records the latency of one directory call
func (m *Metrics) ObserveDirectory(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.DirectoryLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Registry exposes the registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
