// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// HTTPRequests counts inbound requests by method, path and status code.
	HTTPRequests = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockval_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPDuration observes request latency by path.
	HTTPDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockval_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// Valuations counts valuation computations by outcome (ok, no_data, error).
	Valuations = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockval_valuations_total",
			Help: "Total number of valuation computations by outcome",
		},
		[]string{"outcome"},
	)

	// FieldFallbacks counts normalized fields that fell back to a default
	// because the upstream value was missing or not finite.
	FieldFallbacks = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockval_field_fallbacks_total",
			Help: "Total number of normalized fields resolved from defaults",
		},
		[]string{"field"},
	)

	// ProviderLatency observes upstream provider call latency by endpoint.
	ProviderLatency = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockval_provider_request_duration_seconds",
			Help:    "Upstream provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Handler returns an HTTP handler serving the metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
