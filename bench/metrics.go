package bench

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics are registered on a private registry per run, so repeated runs in
// the same process don't collide and the report contains only this run.
type metrics struct {
	registry *prometheus.Registry

	opDuration *prometheus.HistogramVec
	opsTotal   *prometheus.CounterVec
	entries    *prometheus.GaugeVec
	failures   *prometheus.CounterVec
}

func newMetrics(runID string) *metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": runID}

	m := &metrics{
		registry: registry,

		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "flatbench_batch_op_duration_seconds",
			Help:        "Average duration of one operation, measured per batch",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-9, 4, 16), //nolint:mnd // 1ns .. ~1s
		}, []string{"container", "operation"}),

		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "flatbench_operations_total",
			Help:        "The total number of operations executed",
			ConstLabels: labels,
		}, []string{"container", "operation"}),

		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "flatbench_container_entries",
			Help:        "The number of entries in the container after each phase",
			ConstLabels: labels,
		}, []string{"container", "operation"}),

		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "flatbench_scenario_failures_total",
			Help:        "The total number of scenarios that failed",
			ConstLabels: labels,
		}, []string{"container"}),
	}

	registry.MustRegister(m.opDuration, m.opsTotal, m.entries, m.failures)

	return m
}
