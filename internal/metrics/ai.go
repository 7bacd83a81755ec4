package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiCallsLatencyMs,
		aiFragments,
		aiPromptTokens,
	)
}

var (
	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Backend call latency (first request to last fragment) in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"provider", "success"},
	)

	aiFragments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_fragments_total",
			Help: "Streamed reply fragments received per provider.",
		},
		[]string{"provider"},
	)

	aiPromptTokens = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_prompt_tokens",
			Help:    "Estimated prompt size in tokens per request.",
			Buckets: prometheus.ExponentialBuckets(16, 2, 12),
		},
		[]string{"provider"},
	)
)

func ObserveCall(provider string, fragments int, latencyMs int64, success bool) {
	aiFragments.WithLabelValues(norm(provider)).Add(float64(fragments))
	aiCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func ObservePromptTokens(provider string, tokens int) {
	aiPromptTokens.WithLabelValues(norm(provider)).Observe(float64(tokens))
}
