package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts fetches served from the cache store.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses counts fetches that went to the network.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheEvictions counts entries evicted for capacity.
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_cache_evictions_total",
			Help: "Total number of capacity evictions",
		},
	)

	// SweepRemoved counts expired entries removed by the background sweep.
	SweepRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_cache_sweep_removed_total",
			Help: "Total number of expired entries removed by sweeps",
		},
	)

	// FetchRetries counts retry attempts against the reporting endpoint.
	FetchRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_fetch_retries_total",
			Help: "Total number of fetch retries",
		},
	)

	// FetchErrors counts terminal fetch failures by error kind.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revlens_fetch_errors_total",
			Help: "Total number of terminal fetch errors",
		},
		[]string{"kind"},
	)

	// FetchLatency tracks reporting endpoint latency.
	FetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "revlens_fetch_latency_seconds",
			Help:    "Reporting endpoint call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RequestsSuperseded counts in-flight requests cancelled by a newer
	// request from the same call site.
	RequestsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revlens_requests_superseded_total",
			Help: "Total number of requests superseded by a newer one",
		},
	)
)
