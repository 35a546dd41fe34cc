package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status_code"},
	)
)

var (
	CartMutationAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutation_attempts_total",
			Help: "Total number of cart mutation attempts",
		},
		[]string{"operation"},
	)

	CartMutationSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutation_success_total",
			Help: "Total number of successful cart mutations",
		},
		[]string{"operation"},
	)

	CartMutationFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutation_failure_total",
			Help: "Total number of failed cart mutations",
		},
		[]string{"operation", "reason"},
	)

	CartItemsPerMutation = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_items_after_mutation",
			Help:    "Cart line count observed after successful mutations",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	FragmentHashesComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fragment_hashes_computed_total",
			Help: "Total number of fragment hash computations",
		},
	)
)

var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var (
	RedisCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_command_duration_seconds",
			Help:    "Duration of Redis commands in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)

	RedisLockSuccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_success_total",
			Help: "Total number of successfully acquired session locks",
		},
		[]string{"key"},
	)

	RedisLockFailureTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_lock_failure_total",
			Help: "Total number of failed session lock acquisitions",
		},
		[]string{"key", "reason"},
	)
)

var (
	BloomFilterSeedsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloom_filter_seeds_total",
			Help: "Total number of product bloom filter reseed runs",
		},
	)

	BloomFilterSeedSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloom_filter_seed_size",
			Help: "Number of product ids loaded into the bloom filter on the last reseed",
		},
	)
)

func TimeDBQuery(queryType, table string) func() {
	start := time.Now()
	return func() {
		DBQueryDuration.WithLabelValues(queryType, table).Observe(time.Since(start).Seconds())
	}
}
