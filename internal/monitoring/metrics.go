// Package monitoring exposes Prometheus metrics for the resolution hot
// path. Counters are registered at init through promauto and scraped via
// the /metrics endpoint.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaico_seat_cache_lookups_total",
			Help: "Seat cache lookups by outcome (hit, miss, invalid_seat)",
		},
		[]string{"outcome"},
	)

	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mosaico_resolutions_total",
			Help: "Resolutions served by source (cache, store, fallback)",
		},
		[]string{"source"},
	)

	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mosaico_resolve_duration_seconds",
			Help:    "Wall time of a single seat resolution",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaico_seat_cache_entries",
			Help: "Entries currently held in the seat cache",
		},
	)

	warmedSeats = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mosaico_warmed_seats",
			Help: "Seats published by the most recent warmup",
		},
	)
)

// ObserveLookup records a cache lookup outcome.
func ObserveLookup(outcome string) {
	cacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveResolution records a served resolution and its latency.
func ObserveResolution(source string, elapsed time.Duration) {
	resolutions.WithLabelValues(source).Inc()
	resolveDuration.Observe(elapsed.Seconds())
}

// SetCacheEntries publishes the current cache size.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// SetWarmedSeats publishes the size of the last warmed roster.
func SetWarmedSeats(n int) {
	warmedSeats.Set(float64(n))
}
