// Package metrics defines the Prometheus collectors exported by the build
// executor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics groups the executor's collectors.
type Metrics struct {
	// BuildsStarted counts builder invocations.
	BuildsStarted prometheus.Counter
	// BuildsFinished counts nodes that reached a terminal state, by result.
	BuildsFinished *prometheus.CounterVec
	// BuildDuration observes builder wall time in seconds.
	BuildDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg. A nil reg leaves
// them unregistered, which suits tests and one-shot CLI runs.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BuildsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smolix",
			Name:      "builds_started_total",
			Help:      "Number of derivation builds started.",
		}),
		BuildsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smolix",
			Name:      "builds_finished_total",
			Help:      "Number of derivations that reached a terminal state, by result.",
		}, []string{"result"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "smolix",
			Name:      "build_duration_seconds",
			Help:      "Derivation build duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
		}),
	}
	if reg != nil {
		reg.MustRegister(m.BuildsStarted, m.BuildsFinished, m.BuildDuration)
	}
	return m
}

// RecordFinished counts one node reaching a terminal state.
func (m *Metrics) RecordFinished(result string) {
	m.BuildsFinished.WithLabelValues(result).Inc()
}
