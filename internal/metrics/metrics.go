// Package metrics provides Prometheus metrics collection for the offline cache proxy.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// FetchTotal tracks intercepted fetches by where the response came from.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_fetch_total",
			Help: "Total number of intercepted fetches by source",
		},
		[]string{"source"},
	)

	// FetchDuration tracks intercepted fetch duration by source.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proxy_fetch_duration_seconds",
			Help:    "Intercepted fetch duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5},
		},
		[]string{"source"},
	)

	// CacheOperationsTotal tracks named cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// LifecycleEventsTotal tracks install/activate outcomes.
	LifecycleEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_lifecycle_events_total",
			Help: "Total number of lifecycle events by phase and result",
		},
		[]string{"phase", "result"},
	)

	// NotificationsTotal tracks notifications shown, clicked and closed.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification operations",
		},
		[]string{"operation", "tag"},
	)

	// HandlerErrorsTotal tracks errors caught at the top level, by event kind.
	HandlerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_handler_errors_total",
			Help: "Total number of errors caught at the top level",
		},
		[]string{"event", "kind"},
	)

	// CircuitState tracks circuit breaker state (0 closed, 1 open, 2 half-open).
	CircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
// Unrouted (proxied) paths are collapsed into a single label to bound cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "proxy"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordFetch records metrics for an intercepted fetch.
func RecordFetch(duration time.Duration, source string) {
	FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	FetchTotal.WithLabelValues(source).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordLifecycle records an install or activate outcome.
func RecordLifecycle(phase, result string) {
	LifecycleEventsTotal.WithLabelValues(phase, result).Inc()
}

// RecordNotification records a notification operation.
func RecordNotification(operation, tag string) {
	NotificationsTotal.WithLabelValues(operation, tag).Inc()
}

// RecordHandlerError records an error or panic caught at the top level.
func RecordHandlerError(event, kind string) {
	HandlerErrorsTotal.WithLabelValues(event, kind).Inc()
}

// SetCircuitState publishes the numeric state of a named circuit breaker.
func SetCircuitState(name string, state int) {
	CircuitState.WithLabelValues(name).Set(float64(state))
}
