package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "webmapper"

// Portal, popup and cache Prometheus metrics.
var (
	PortalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portal_requests_total",
			Help:      "Total number of portal REST requests",
		},
		[]string{"operation", "status"},
	)

	PortalRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "portal_request_duration_seconds",
			Help:      "Portal REST request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	PopupSynthesisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "popup_synthesis_total",
			Help:      "Popups synthesized per service kind and outcome",
		},
		[]string{"kind", "status"},
	)

	PopupUnmatchedFieldsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "popup_unmatched_fields_total",
			Help:      "Popup field infos without a schema field",
		},
	)

	SchemaCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_cache_total",
			Help:      "Schema cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// RegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PortalRequestsTotal,
			PortalRequestDuration,
			PopupSynthesisTotal,
			PopupUnmatchedFieldsTotal,
			SchemaCacheTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
		)
	})
}
