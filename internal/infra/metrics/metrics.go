// File: internal/infra/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	statusSets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parsing_status_sets_total",
			Help: "Count of status records written.",
		},
	)

	statusGets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parsing_status_gets_total",
			Help: "Count of status lookups by result (pending/expired/stored).",
		},
		[]string{"result"},
	)

	pollingOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polling_sessions_total",
			Help: "Count of polling sessions by terminal outcome.",
		},
		[]string{"outcome"},
	)

	chatTurns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Count of chat turns relayed to the agent webhook.",
		},
	)

	chatFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_failures_total",
			Help: "Count of chat turns answered with a synthetic error reply.",
		},
		[]string{"kind"},
	)

	webhookLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_latency_ms",
			Help:    "Upstream webhook latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"target", "success"},
	)
)

// RegisterAll registers every collector exactly once on the default registry.
func RegisterAll() {
	once.Do(func() {
		prometheus.MustRegister(
			statusSets,
			statusGets,
			pollingOutcomes,
			chatTurns,
			chatFailures,
			webhookLatencyMs,
		)
	})
}

func IncStatusSet() { statusSets.Inc() }

func IncStatusGet(result string) {
	statusGets.WithLabelValues(result).Inc()
}

func IncPollingOutcome(outcome string) {
	pollingOutcomes.WithLabelValues(outcome).Inc()
}

func IncChatTurn() { chatTurns.Inc() }

func IncChatFailure(kind string) {
	chatFailures.WithLabelValues(kind).Inc()
}

func ObserveWebhookLatency(target string, success bool, ms float64) {
	s := "false"
	if success {
		s = "true"
	}
	webhookLatencyMs.WithLabelValues(target, s).Observe(ms)
}
