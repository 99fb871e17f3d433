// Package metrics exposes container resolution metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-ctx/framework/container"
)

// Collector holds the Prometheus metrics for one application and
// implements container.Observer.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	Resolutions          *prometheus.CounterVec
	Constructions        *prometheus.CounterVec
	ConstructionDuration *prometheus.HistogramVec
	Failures             *prometheus.CounterVec
}

var _ container.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so several can
// coexist (one per application, or per test).
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Successful create/get calls by where the instance came from",
			},
			[]string{"op", "source"},
		),
		Constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constructions_total",
				Help:      "Constructor invocations by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		ConstructionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "construction_duration_seconds",
				Help:      "Constructor invocation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Failed create/get calls by error kind",
			},
			[]string{"op", "kind"},
		),
	}

	registry.MustRegister(
		c.Resolutions,
		c.Constructions,
		c.ConstructionDuration,
		c.Failures,
		collectors.NewGoCollector(),
	)
	return c
}

// Resolved implements container.Observer.
func (c *Collector) Resolved(op container.Operation, _ container.TypeIdentity, src container.Source) {
	c.Resolutions.WithLabelValues(string(op), string(src)).Inc()
}

// Constructed implements container.Observer.
func (c *Collector) Constructed(id container.TypeIdentity, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Constructions.WithLabelValues(id.Short(), outcome).Inc()
	c.ConstructionDuration.WithLabelValues(id.Short()).Observe(elapsed.Seconds())
}

// Failed implements container.Observer.
func (c *Collector) Failed(op container.Operation, _ container.TypeIdentity, err error) {
	c.Failures.WithLabelValues(string(op), Kind(err)).Inc()
}

// Kind classifies a resolution error for the "kind" label.
func Kind(err error) string {
	switch {
	case errors.Is(err, container.ErrInstantiation):
		return "instantiation"
	case errors.Is(err, container.ErrInvalidTypeName):
		return "invalid_type_name"
	case errors.Is(err, container.ErrNoSuchConstructor):
		return "no_such_constructor"
	case errors.Is(err, container.ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
