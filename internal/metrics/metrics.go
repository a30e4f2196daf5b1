// Package metrics declares the Prometheus collectors shared by the search,
// reputation and cache layers. Collectors register with the default
// registry at init; the HTTP transport exposes them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequests counts searches by kind (name, phone) and outcome
	// (ok, invalid, error)
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callerid_search_requests_total",
		Help: "Total number of directory searches",
	}, []string{"kind", "outcome"})

	// SearchDurationMs measures end-to-end search latency, cache hits included
	SearchDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "callerid_search_duration_ms",
		Help:    "Latency of directory searches in milliseconds",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
	}, []string{"kind"})

	// CacheLookups counts cache reads by backend and result (hit, miss, error)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callerid_cache_lookups_total",
		Help: "Total number of cache lookups",
	}, []string{"backend", "result"})

	// SpamReports counts spam writes by action (report, retract) and outcome
	SpamReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callerid_spam_reports_total",
		Help: "Total number of spam report writes",
	}, []string{"action", "outcome"})
)

// ObserveSearch records one search's outcome and latency
func ObserveSearch(kind, outcome string, start time.Time) {
	SearchRequests.WithLabelValues(kind, outcome).Inc()
	SearchDurationMs.WithLabelValues(kind).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
