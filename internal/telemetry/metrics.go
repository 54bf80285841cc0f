package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the optimistic mutation layer.
// All metrics are labeled by collection and mutation name.
type Metrics struct {
	MutationsStarted    *prometheus.CounterVec
	MutationsCommitted  *prometheus.CounterVec
	MutationsRolledBack *prometheus.CounterVec
	MutationsRejected   *prometheus.CounterVec
	MutationDuration    *prometheus.HistogramVec
}

// NewMetrics creates and registers mutation metrics on the given registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "sindri"
	}
	factory := promauto.With(reg)

	subsystem := "mutation"

	return &Metrics{
		MutationsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "started_total",
				Help:      "Mutations that entered the optimistic state",
			},
			[]string{"collection", "mutation"},
		),
		MutationsCommitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "committed_total",
				Help:      "Mutations confirmed by the upstream API",
			},
			[]string{"collection", "mutation"},
		),
		MutationsRolledBack: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rolled_back_total",
				Help:      "Mutations rolled back after an upstream failure",
			},
			[]string{"collection", "mutation"},
		),
		MutationsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rejected_total",
				Help:      "Mutations rejected by local validation before any request",
			},
			[]string{"collection", "mutation"},
		),
		MutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "duration_seconds",
				Help:      "Mutation lifecycle duration from start to terminal state",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"collection", "mutation"},
		),
	}
}
