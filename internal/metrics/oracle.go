package metrics

import "github.com/prometheus/client_golang/prometheus"

// Oracle (text generation) Prometheus metrics.
var (
	OracleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Total number of text-generation requests",
		},
		[]string{"model", "purpose", "status"},
	)

	OracleRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_request_duration_seconds",
			Help:      "Text-generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model", "purpose"},
	)

	OracleTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_tokens_total",
			Help:      "Total text-generation tokens consumed",
		},
		[]string{"model", "type"},
	)
)

var oracleMetricsRegistered bool

// RegisterOracleMetrics registers oracle metrics. Must be called once from main.
func RegisterOracleMetrics() {
	if oracleMetricsRegistered {
		return
	}
	prometheus.MustRegister(OracleRequestsTotal)
	prometheus.MustRegister(OracleRequestDuration)
	prometheus.MustRegister(OracleTokensTotal)
	oracleMetricsRegistered = true
}
