package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	FormatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentsearch",
			Name:      "format_requests_total",
			Help:      "Total number of payloads formatted",
		},
		[]string{"search_type", "outcome"}, // outcome: "ok" / "throttled" / "failed" / "panic"
	)

	FormatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentsearch",
			Name:      "format_duration_seconds",
			Help:      "Payload formatting duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"search_type"},
	)

	ExtractionStrategyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentsearch",
			Name:      "extraction_strategy_total",
			Help:      "Products extractions by winning strategy",
		},
		[]string{"strategy"},
	)

	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentsearch",
			Name:      "retrieval_requests_total",
			Help:      "Total upstream retrieval requests",
		},
		[]string{"search_type", "status"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentsearch",
			Name:      "retrieval_duration_seconds",
			Help:      "Upstream retrieval duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"search_type"},
	)

	TraceTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentsearch",
			Name:      "trace_tokens_total",
			Help:      "Tokens reported by agent activity traces",
		},
		[]string{"phase", "direction"}, // phase: "planning" / "search"; direction: "input" / "output"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(FormatRequestsTotal)
	prometheus.MustRegister(FormatDuration)
	prometheus.MustRegister(ExtractionStrategyTotal)
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(TraceTokensTotal)
	pipelineMetricsRegistered = true
}
