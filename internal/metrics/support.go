package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		messagesClassified,
		messagesRejected,
		exchangeFailures,
		ancillaryFallbacks,
	)
}

var (
	messagesClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_messages_classified_total",
			Help: "Accepted user messages per issue category.",
		},
		[]string{"category"},
	)

	messagesRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "support_messages_rejected_total",
			Help: "User messages rejected by the in-domain gate.",
		},
	)

	exchangeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_exchange_failures_total",
			Help: "Exchanges whose reply was replaced by a failure message, per mode.",
		},
		[]string{"mode"},
	)

	ancillaryFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_ancillary_fallbacks_total",
			Help: "Title/insight calls that fell back to a static default.",
		},
		[]string{"kind"},
	)
)

func MessageClassified(category string) {
	messagesClassified.WithLabelValues(norm(category)).Inc()
}

func MessageRejected() { messagesRejected.Inc() }

func ExchangeFailed(mode string) {
	exchangeFailures.WithLabelValues(norm(mode)).Inc()
}

func AncillaryFallback(kind string) {
	ancillaryFallbacks.WithLabelValues(norm(kind)).Inc()
}
