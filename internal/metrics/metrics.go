package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector of the catalog service
type Metrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Store operation metrics
	StoreOperationDuration *prometheus.HistogramVec
	StoreFallbackCounter   *prometheus.CounterVec

	// Catalog mutation metrics
	OperationsCounter *prometheus.CounterVec

	// Product popularity metrics
	ProductViewsCounter *prometheus.CounterVec
}

// New registers the collectors with reg under prefix.
// Pass prometheus.NewRegistry() in tests so that repeated calls do not collide.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		AuthAttemptsCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of authentication attempts",
			},
		),
		AuthSuccessCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_success_total",
				Help: "Total number of successful authentications",
			},
		),
		AuthErrorsCounter: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_auth_errors_total",
				Help: "Total number of authentication errors",
			},
		),
		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_store_operation_duration_seconds",
				Help:    "Duration of data source operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
		StoreFallbackCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_store_fallback_total",
				Help: "Total number of reads served from fixtures because the primary store was unavailable",
			},
			[]string{"operation_type"},
		),
		OperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_operations_total",
				Help: "Total number of catalog operations",
			},
			[]string{"entity", "operation"},
		),
		ProductViewsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_views_total",
				Help: "Total number of product views",
			},
			[]string{"product_id", "category"},
		),
	}
}

// NewNop returns metrics registered with a private registry, for tests and tools
func NewNop() *Metrics {
	return New("nop", prometheus.NewRegistry())
}

// TrackStoreOperation returns a function that records the duration of a store operation
func (m *Metrics) TrackStoreOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		m.StoreOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordFallback counts a read answered by fixtures
func (m *Metrics) RecordFallback(operationType string) {
	m.StoreFallbackCounter.WithLabelValues(operationType).Inc()
}

// RecordOperation increments the counter for catalog operations
func (m *Metrics) RecordOperation(entity, operation string) {
	m.OperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordProductView increments the counter for product views
func (m *Metrics) RecordProductView(productID string, category string) {
	m.ProductViewsCounter.WithLabelValues(productID, category).Inc()
}
