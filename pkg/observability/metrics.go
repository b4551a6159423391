// Package observability exposes machine lifecycle events as Prometheus
// metrics via the espalier.Observer hook.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/espalierhq/espalier"
)

// Metrics holds the collectors shared by all observed machines.
type Metrics struct {
	transitions     *prometheus.CounterVec
	guardRejections *prometheus.CounterVec
	staleDrops      *prometheus.CounterVec
	interval        *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_transitions_total",
				Help: "Realized transitions by machine, source, target and event.",
			},
			[]string{"machine", "from", "to", "event"},
		),
		guardRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_guard_rejections_total",
				Help: "Dispatches blocked by a guard.",
			},
			[]string{"machine", "state", "event"},
		),
		staleDrops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_async_results_dropped_total",
				Help: "Async action results dropped because the machine had moved on.",
			},
			[]string{"machine", "state"},
		),
		interval: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "espalier_transition_interval_seconds",
				Help:    "Time between consecutive transitions of a machine.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"machine"},
		),
	}
	reg.MustRegister(m.transitions, m.guardRejections, m.staleDrops, m.interval)
	return m
}

// Observer builds the per-machine observer to pass to espalier.New via
// WithObserver.
func (m *Metrics) Observer(machineID string) espalier.Observer {
	var mu sync.Mutex
	var lastAt time.Time

	return espalier.Observer{
		OnTransition: func(from, to, event string, at time.Time) {
			m.transitions.WithLabelValues(machineID, from, to, event).Inc()

			mu.Lock()
			if !lastAt.IsZero() {
				m.interval.WithLabelValues(machineID).Observe(at.Sub(lastAt).Seconds())
			}
			lastAt = at
			mu.Unlock()
		},
		OnGuardRejected: func(state, event string) {
			m.guardRejections.WithLabelValues(machineID, state, event).Inc()
		},
		OnStaleResultDropped: func(state string) {
			m.staleDrops.WithLabelValues(machineID, state).Inc()
		},
	}
}
