// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBucketsMs = []float64{0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_http_requests_total",
		Help: "HTTP requests by route pattern, method and status",
	}, []string{"route", "method", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "areas_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: durationBucketsMs,
	}, []string{"route"})
	LookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_lookups_total",
		Help: "Catalog lookups by kind and result (hit, miss)",
	}, []string{"kind", "result"})
	SearchCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_search_cache_total",
		Help: "Search cache outcomes (hit, miss, error)",
	}, []string{"result"})
	CatalogReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "areas_catalog_reloads_total",
		Help: "Catalog loads by result (ok, error)",
	}, []string{"result"})
	CatalogAreas = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "areas_catalog_areas",
		Help: "Number of areas in the current catalog",
	})
	CatalogVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "areas_catalog_version",
		Help: "Version of the current catalog, incremented on every successful load",
	})
	ProviderConflicts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "areas_catalog_provider_conflicts",
		Help: "Provider IDs claimed by more than one area in the current catalog",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(CatalogReloadsTotal)
	prometheus.MustRegister(CatalogAreas)
	prometheus.MustRegister(CatalogVersion)
	prometheus.MustRegister(ProviderConflicts)
}

// Lookup counts a single catalog lookup.
func Lookup(kind string, found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	LookupsTotal.WithLabelValues(kind, result).Inc()
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
