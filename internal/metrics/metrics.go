// Package metrics exposes host and time-fetch counters to Prometheus.
//
// A nil *Metrics is valid and records nothing, so tests and the simulator can
// run without a registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minihost"

type Metrics struct {
	Registry *prometheus.Registry

	transitions  *prometheus.CounterVec
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	timeFetches  *prometheus.CounterVec
	clockSynced  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "host",
				Name:      "transitions_total",
				Help:      "App transitions performed by the host.",
			},
			[]string{"from", "to"},
		),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "host",
				Name:      "ticks_total",
				Help:      "Control loop iterations.",
			},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "host",
				Name:      "tick_duration_seconds",
				Help:      "Time spent in one control loop iteration.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 10), // 0.5ms to ~250ms
			},
		),
		timeFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "clock",
				Name:      "time_fetches_total",
				Help:      "Reference time fetches by result.",
			},
			[]string{"result"},
		),
		clockSynced: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "clock",
				Name:      "reference_captured",
				Help:      "1 when a reference time has been captured.",
			},
		),
	}
	m.Registry.MustRegister(
		m.transitions,
		m.ticks,
		m.tickDuration,
		m.timeFetches,
		m.clockSynced,
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	if from == "" {
		from = "none"
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Tick(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(elapsed.Seconds())
}

// TimeFetch records the outcome of a reference time fetch.
func (m *Metrics) TimeFetch(ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
		m.clockSynced.Set(1)
	}
	m.timeFetches.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
