package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bounded cardinality constants for metric labels. Label values must come
// from these sets so the metrics never grow unbounded.
const (
	CacheTrade  = "trade"
	CacheQuick  = "quick"
	CacheAIResp = "ai_response"

	DecisionTrade    = "trade"
	DecisionResearch = "research"
	DecisionSkipped  = "skipped"
)

// Pipeline metrics
var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictdesk_cache_hits_total",
		Help: "Cache hits by cache tier",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictdesk_cache_misses_total",
		Help: "Cache misses by cache tier",
	}, []string{"cache"})

	CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictdesk_cache_invalidations_total",
		Help: "Trade cache entries dropped because the candidate market set changed",
	})

	CoalescedCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictdesk_coalesced_calls_total",
		Help: "Generation calls that joined an in-flight run instead of starting one",
	})

	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "predictdesk_generation_duration_seconds",
		Help:    "Wall time of one full trade generation cycle",
		Buckets: prometheus.DefBuckets,
	})

	DecisionsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictdesk_decisions_total",
		Help: "Decisions produced by outcome",
	}, []string{"outcome"})

	AIFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictdesk_ai_failures_total",
		Help: "AI vendor call failures by classified cause",
	}, []string{"class"})

	AICalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictdesk_ai_calls_total",
		Help: "AI vendor calls attempted",
	})
)
