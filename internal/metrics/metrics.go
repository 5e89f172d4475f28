package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the storefront collectors.
	Registry = prometheus.NewRegistry()

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Query cache lookups by resource and result.",
		},
		[]string{"resource", "result"},
	)

	cacheInvalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache entries marked stale, by resource.",
		},
		[]string{"resource"},
	)

	remoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "Remote procedure calls by method and status code.",
		},
		[]string{"method", "code"},
	)

	remoteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Duration of remote procedure calls.",
			Buckets:   prometheus.ExponentialBuckets(0.002, 2, 12),
		},
		[]string{"method"},
	)

	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "backend",
			Name:      "breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open).",
		},
		[]string{"name"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Browser sessions held by this instance.",
		},
	)
)

func init() {
	Registry.MustRegister(
		cacheLookups,
		cacheInvalidations,
		remoteCalls,
		remoteDuration,
		breakerState,
		httpRequests,
		httpDuration,
		activeSessions,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func CacheHit(resource string) {
	cacheLookups.WithLabelValues(resource, "hit").Inc()
}

func CacheMiss(resource string) {
	cacheLookups.WithLabelValues(resource, "miss").Inc()
}

func CacheInvalidated(resource string, n int) {
	cacheInvalidations.WithLabelValues(resource).Add(float64(n))
}

func RemoteCall(method, code string, d time.Duration) {
	remoteCalls.WithLabelValues(method, code).Inc()
	remoteDuration.WithLabelValues(method).Observe(d.Seconds())
}

func BreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}

func HTTPRequest(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func SessionsActive(n int) {
	activeSessions.Set(float64(n))
}
