// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_api_requests_total",
			Help: "Total number of API requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "audit_api_request_duration_seconds",
			Help: "Duration of API request processing in seconds",
		},
		[]string{"operation"},
	)

	ProviderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_provider_fallbacks_total",
			Help: "Total number of provider failures replaced by fallback data",
		},
		[]string{"provider"},
	)

	LeadsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_leads_persisted_total",
			Help: "Total number of lead rows written by lead type",
		},
		[]string{"type"},
	)
)
