package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CategorizeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "categorize_latency_ms",
			Help:    "Email categorization latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12), // 10ms to ~40s
		},
		[]string{"status"}, // status: success, short_circuit, quota_exhausted, error
	)

	EmailCategorizedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_categorized_count",
			Help: "Total number of emails categorized, by resulting category",
		},
		[]string{"category"},
	)

	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rate_limit_wait_seconds",
			Help:    "Time spent blocked waiting for a rate-limit permit",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~3m
		},
	)

	QuotaShortCircuitCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_short_circuit_count",
			Help: "Categorization calls skipped because the provider quota is exhausted",
		},
	)

	NotificationOutcomeCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_outcome_count",
			Help: "Per-sink notification outcomes",
		},
		[]string{"sink", "status"}, // status: success, skipped, error
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
		[]string{"query"},
	)
)

func RecordCategorizeLatency(status string, duration time.Duration) {
	CategorizeLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncrementEmailCategorized(category string) {
	EmailCategorizedCount.WithLabelValues(category).Inc()
}

func ObserveRateLimitWait(duration time.Duration) {
	RateLimitWaitSeconds.Observe(duration.Seconds())
}

func IncrementQuotaShortCircuit() {
	QuotaShortCircuitCount.Inc()
}

func IncrementNotificationOutcome(sink, status string) {
	NotificationOutcomeCount.WithLabelValues(sink, status).Inc()
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementSlowQuery(query string) {
	SlowQueryCount.WithLabelValues(query).Inc()
}
