package metrics

import (
	"sync"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Search engine Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "provider_requests_total",
			Help:      "Total number of provider calls by outcome",
		},
		[]string{"provider", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forc3",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	ProviderResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "provider_results_total",
			Help:      "Total results contributed by each provider",
		},
		[]string{"provider"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "search_cache_lookups_total",
			Help:      "Search cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	CacheWriteErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "search_cache_write_errors_total",
			Help:      "Failed search cache writes",
		},
	)

	SearchCoalescedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "search_coalesced_total",
			Help:      "Searches that shared an in-flight fan-out",
		},
	)

	BarcodeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forc3",
			Name:      "barcode_lookups_total",
			Help:      "Barcode lookups by outcome",
		},
		[]string{"result"}, // "found" / "not_found" / "invalid" / "error"
	)
)

var registerOnce sync.Once

// Register registers the engine and HTTP metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ProviderRequestsTotal,
			ProviderRequestDuration,
			ProviderResultsTotal,
			CacheLookupsTotal,
			CacheWriteErrorsTotal,
			SearchCoalescedTotal,
			BarcodeLookupsTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}

// ObserveProvider records the outcome of one provider call
func ObserveProvider(report domain.ProviderReport) {
	ProviderRequestsTotal.WithLabelValues(report.Provider, string(report.Status)).Inc()
	if report.Status == domain.StatusDisabled {
		return
	}
	ProviderRequestDuration.WithLabelValues(report.Provider).Observe(report.Duration.Seconds())
	ProviderResultsTotal.WithLabelValues(report.Provider).Add(float64(report.Count))
}

// ObserveCacheLookup records a cache hit, miss or backend error
func ObserveCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveBarcode records a barcode lookup outcome
func ObserveBarcode(result string) {
	BarcodeLookupsTotal.WithLabelValues(result).Inc()
}
