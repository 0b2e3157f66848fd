// Package metrics provides Prometheus metrics collection for tracedoc.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SchemasRegistered prometheus.Gauge
	DocumentBytes     prometheus.Gauge
}

// New creates a collector with all metrics registered on reg (the default
// registerer if nil).
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tracedoc",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tracedoc",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "tracedoc",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		SchemasRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "tracedoc",
				Name:      "schemas_registered",
				Help:      "Number of schemas committed to the registry",
			},
		),
		DocumentBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "tracedoc",
				Name:      "openapi_document_bytes",
				Help:      "Size of the generated OpenAPI document",
			},
		),
	}
}
