package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the snapshot pipeline.
type Metrics struct {
	registry *prometheus.Registry

	SnapshotSaves   *prometheus.CounterVec
	SnapshotLoads   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PreviewRenders  *prometheus.CounterVec
}

// NewMetrics creates the instrument set on its own registry, keeping tests
// and embedded use free of global registry collisions.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SnapshotSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagelink_snapshot_saves_total",
				Help: "Total number of snapshot save attempts",
			},
			[]string{"outcome"},
		),
		SnapshotLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagelink_snapshot_loads_total",
				Help: "Total number of snapshot load attempts",
			},
			[]string{"outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "stagelink_http_request_duration_seconds",
				Help: "Duration of HTTP requests",
			},
			[]string{"route", "status"},
		),
		PreviewRenders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stagelink_preview_renders_total",
				Help: "Total number of page renders by mode",
			},
			[]string{"mode"},
		),
	}

	m.registry.MustRegister(m.SnapshotSaves, m.SnapshotLoads, m.RequestDuration, m.PreviewRenders)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// Handler exposes the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
