package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query routing and retrieval metrics.
var (
	RouteDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_decisions_total",
			Help:      "Classifier decisions by variant and route",
		},
		[]string{"variant", "route", "fallback"},
	)

	SafetyRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "safety_rejections_total",
			Help:      "Generated queries rejected by the validator",
		},
		[]string{"kind"},
	)

	AskRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ask_requests_total",
			Help:      "Questions answered, by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	AskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ask_duration_seconds",
			Help:      "End-to-end question latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"variant"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers routing metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(RouteDecisionsTotal)
	prometheus.MustRegister(SafetyRejectionsTotal)
	prometheus.MustRegister(AskRequestsTotal)
	prometheus.MustRegister(AskDuration)
	searchMetricsRegistered = true
}
