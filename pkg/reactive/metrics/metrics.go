// Package metrics exports reactive wrapping and write activity as Prometheus
// metrics through a reactive.Observer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "reactive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactive",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer is a reactive.Observer backed by Prometheus collectors.
//
// Metrics collected:
//   - reactive_instances_total: Counter of reactives wrapped, by mode
//   - reactive_instance_keys: Histogram of key counts per reactive
//   - reactive_cells_created_total: Counter of cells allocated by wrapping
//   - reactive_writes_total: Counter of successful writes
//   - reactive_rejected_writes_total: Counter of failed writes, by error code
//
// Example:
//
//	obs := metrics.New(metrics.WithRegistry(reg))
//	state := reactive.New(initial, reactive.WithObserver(obs))
type Observer struct {
	instances *prometheus.CounterVec
	keys      prometheus.Histogram
	cells     prometheus.Counter
	writes    prometheus.Counter
	rejected  *prometheus.CounterVec
}

var _ reactive.Observer = (*Observer)(nil)

// New registers the collectors and returns the observer. Registering twice
// on the same registry panics, as with promauto.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		instances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_total",
			Help:        "Total number of reactives wrapped",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		keys: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instance_keys",
			Help:        "Number of keys per wrapped reactive",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		cells: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cells_created_total",
			Help:        "Total number of cells allocated while wrapping",
			ConstLabels: config.ConstLabels,
		}),

		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of successful writes",
			ConstLabels: config.ConstLabels,
		}),

		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rejected_writes_total",
			Help:        "Total number of rejected writes by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),
	}
}

func (o *Observer) Wrapped(shallow bool, keys int) {
	mode := "deep"
	if shallow {
		mode = "shallow"
	}
	o.instances.WithLabelValues(mode).Inc()
	o.keys.Observe(float64(keys))
}

func (o *Observer) CellCreated() {
	o.cells.Inc()
}

func (o *Observer) Written(string) {
	o.writes.Inc()
}

// Rejected labels by error code only; keys are unbounded.
func (o *Observer) Rejected(_ string, err error) {
	code := rerrors.CodeOf(err)
	if code == "" {
		code = "unknown"
	}
	o.rejected.WithLabelValues(code).Inc()
}
