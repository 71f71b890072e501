package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Per-channel delivery outcomes, after retries.
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_deliveries_total",
			Help: "Delivery outcomes per kind and channel",
		},
		[]string{"kind", "channel", "status"},
	)

	// Attempts used per delivery (1 to the retry cap).
	DeliveryAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_delivery_attempts",
			Help:    "Send attempts used per channel delivery",
			Buckets: prometheus.LinearBuckets(1, 1, 3),
		},
		[]string{"channel"},
	)

	// Batch item outcomes.
	BatchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_batch_items_total",
			Help: "Batch items processed per kind",
		},
		[]string{"kind", "status"},
	)

	// Audit rows that could not be written (best-effort path).
	AuditWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_audit_write_failures_total",
			Help: "Audit log writes that failed",
		},
	)

	// MQ message handling latency in milliseconds.
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// Database query latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notifier_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)
)

func RecordDelivery(kind, channel, status string) {
	DeliveriesTotal.WithLabelValues(kind, channel, status).Inc()
}

func ObserveDeliveryAttempts(channel string, attempts int) {
	DeliveryAttempts.WithLabelValues(channel).Observe(float64(attempts))
}

func IncBatchItem(kind, status string) {
	BatchItemsTotal.WithLabelValues(kind, status).Inc()
}

func IncAuditWriteFailure() {
	AuditWriteFailuresTotal.Inc()
}

func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
