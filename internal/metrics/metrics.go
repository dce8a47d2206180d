package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for ResQ
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec
	RateLimitedTotal     prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	AidRequestsCreated   *prometheus.CounterVec
	DonationsCreated     *prometheus.CounterVec
	MoneyDonatedTotal    prometheus.Counter
	TaskAssignmentsTotal *prometheus.CounterVec
	OccupancyUpdates     *prometheus.CounterVec
}

// NewMetricsRegistry registers every collector on reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resq_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "resq_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method"},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "resq_http_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		AidRequestsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_aid_requests_created_total",
				Help: "Aid requests submitted, by aid type and whether the type limit was exceeded",
			},
			[]string{"aid_type", "exceeds_limit"},
		),
		DonationsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_donations_created_total",
				Help: "Donations submitted, by donation type",
			},
			[]string{"type"},
		),
		MoneyDonatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "resq_money_donated_total",
				Help: "Sum of money donation amounts accepted",
			},
		),
		TaskAssignmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_task_assignments_total",
				Help: "Volunteer self-assignment attempts by outcome",
			},
			[]string{"outcome"},
		),
		OccupancyUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resq_shelter_occupancy_updates_total",
				Help: "Shelter occupancy updates by outcome",
			},
			[]string{"outcome"},
		),
	}
}
