// Package metrics holds the Prometheus collectors shared by the storefront
// packages. Collectors are registered on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Dispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_dispatch_total",
			Help: "State container dispatches by action",
		},
		[]string{"action"},
	)

	StateLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_state_load_total",
			Help: "Persisted state loads by outcome (fresh, restored, corrupt, unavailable)",
		},
		[]string{"status"},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_state_persist_failures_total",
			Help: "Write-through failures of the persisted state blob",
		},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_load_total",
			Help: "Catalog loads by source (remote, fallback)",
		},
		[]string{"source"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
