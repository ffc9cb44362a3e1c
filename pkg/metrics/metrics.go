package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supermercado", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supermercado", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// StoreOperations counts article store calls by operation and outcome (ok|not_found|error).
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supermercado", Name: "store_operations_total", Help: "Number of article store operations by result."},
		[]string{"operation", "result"},
	)
	StoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "supermercado", Name: "store_operation_duration_seconds", Help: "Latency of article store operations.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "supermercado", Name: "http_requests_total", Help: "Number of HTTP requests by route and status."},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(StoreDuration)
	reg.MustRegister(HTTPRequests)
}
