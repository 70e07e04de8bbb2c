package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bot's Prometheus collectors on a private registry.
//
// Metrics:
//   - arbiter_messages_handled_total{flow} - messages routed to a flow
//   - arbiter_decisions_total{decision} - parsed verdicts by tag
//   - arbiter_transitions_total{outcome} - role transition outcomes
//   - arbiter_generation_failures_total - generation requests answered with a failure string
//   - arbiter_generation_duration_seconds - generation request latency
type Metrics struct {
	registry *prometheus.Registry

	MessagesHandled    *prometheus.CounterVec
	Decisions          *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	GenerationFailures prometheus.Counter
	GenerationDuration prometheus.Histogram
}

// NewMetrics creates and registers the collectors, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		MessagesHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbiter_messages_handled_total",
				Help: "Total number of messages routed to a flow",
			},
			[]string{"flow"}, // "ticket" or "chat"
		),
		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbiter_decisions_total",
				Help: "Total number of parsed ticket verdicts",
			},
			[]string{"decision"},
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbiter_transitions_total",
				Help: "Total number of role transitions by outcome",
			},
			[]string{"outcome"},
		),
		GenerationFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "arbiter_generation_failures_total",
				Help: "Total number of generation requests answered with a failure string",
			},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbiter_generation_duration_seconds",
				Help:    "Duration of generation requests in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
			},
		),
	}
}

// ObserveGeneration records one generation request.
func (m *Metrics) ObserveGeneration(elapsed time.Duration, failed bool) {
	m.GenerationDuration.Observe(elapsed.Seconds())
	if failed {
		m.GenerationFailures.Inc()
	}
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
