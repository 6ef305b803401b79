// Package metrics holds the Prometheus collectors for the recommender.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Recommendations
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation queries by mode and outcome",
		},
		[]string{"mode", "outcome"}, // mode: single, multiple; outcome: found, not_found, invalid, error
	)

	RecommendationCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_candidates",
			Help:    "Number of candidate songs scored per query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"mode"},
	)

	// VAD resolution
	VADResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vad_resolutions_total",
			Help: "Total number of emotion word resolutions by fallback step",
		},
		[]string{"source"},
	)

	// Enrichment
	EnrichmentChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_chunks_total",
			Help: "Total number of metadata batch lookups by outcome",
		},
		[]string{"outcome"}, // ok, error, breaker_open
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrichment_duration_seconds",
			Help:    "Duration of page enrichment in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_breaker_state",
			Help: "Metadata provider circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Corpus
	CorpusSongs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_songs",
			Help: "Number of songs in the served corpus",
		},
	)

	MoodRegions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mood_regions",
			Help: "Number of mood regions computed at startup",
		},
	)
)

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records one scoring query.
func RecordRecommendation(mode, outcome string, candidates int) {
	RecommendationsTotal.WithLabelValues(mode, outcome).Inc()
	if candidates >= 0 {
		RecommendationCandidates.WithLabelValues(mode).Observe(float64(candidates))
	}
}

// RecordVADResolution records which fallback step resolved a word.
func RecordVADResolution(source string) {
	VADResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordEnrichmentChunk records the outcome of one batch lookup.
func RecordEnrichmentChunk(outcome string) {
	EnrichmentChunksTotal.WithLabelValues(outcome).Inc()
}

// RecordEnrichment records the time spent enriching one page.
func RecordEnrichment(duration time.Duration) {
	EnrichmentDuration.Observe(duration.Seconds())
}
