// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanboard_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fanboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// StorageRetries counts transient storage faults that triggered a retry.
	StorageRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanboard_storage_retries_total",
		Help: "Total number of retried transient storage faults",
	}, []string{"operation"})

	// MessagesCreated counts messages accepted by the board.
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanboard_messages_created_total",
		Help: "Total number of messages created",
	})

	// ReactionsIncremented counts reaction increments by emoji.
	ReactionsIncremented = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanboard_reactions_incremented_total",
		Help: "Total number of reaction increments by emoji",
	}, []string{"emoji"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
