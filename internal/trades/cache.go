package trades

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/predictdesk/predictdesk/internal/metrics"
	"github.com/predictdesk/predictdesk/internal/model"
)

// CacheEntry is one agent's cached generation result together with the
// fingerprint that validates it: the sorted candidate market-id set.
type CacheEntry struct {
	Trades      []model.AgentTrade
	Research    []model.ResearchDecision
	GeneratedAt time.Time
	MarketIDs   []string // sorted
}

// Cache is the process-wide trade result cache. It is an explicit injected
// value rather than package state so tests and multi-tenant setups can hold
// isolated instances.
//
// Entries are valid under two conditions at once: age under the TTL, and the
// candidate market-id set unchanged since generation. Either failing drops
// the entry.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]*CacheEntry
}

// NewCache creates a trade cache with the given TTL
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*CacheEntry),
	}
}

// SortedMarketIDs extracts the sorted id fingerprint from a candidate set.
func SortedMarketIDs(markets []model.Market) []string {
	ids := make([]string, 0, len(markets))
	for _, m := range markets {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Quick returns any TTL-fresh cached trades without validating the market-id
// set. This is the cheap pre-check that skips market and news fetches when
// staleness is acceptable; the validated Get supersedes it once markets are
// in hand.
func (c *Cache) Quick(agentID string) ([]model.AgentTrade, bool) {
	c.mu.RLock()
	entry, ok := c.entries[agentID]
	c.mu.RUnlock()

	if !ok || time.Since(entry.GeneratedAt) >= c.ttl {
		metrics.CacheMisses.WithLabelValues(metrics.CacheQuick).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(metrics.CacheQuick).Inc()
	return entry.Trades, true
}

// Get returns the cached entry iff it is TTL-fresh and was generated against
// the same sorted market-id set. Any mismatch invalidates and deletes the
// entry.
func (c *Cache) Get(agentID string, marketIDs []string) (*CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[agentID]
	if !ok {
		metrics.CacheMisses.WithLabelValues(metrics.CacheTrade).Inc()
		return nil, false
	}

	if time.Since(entry.GeneratedAt) >= c.ttl {
		delete(c.entries, agentID)
		metrics.CacheMisses.WithLabelValues(metrics.CacheTrade).Inc()
		return nil, false
	}

	if !equalIDs(entry.MarketIDs, marketIDs) {
		delete(c.entries, agentID)
		metrics.CacheInvalidations.Inc()
		metrics.CacheMisses.WithLabelValues(metrics.CacheTrade).Inc()
		log.Debug().
			Str("agent_id", agentID).
			Int("cached_markets", len(entry.MarketIDs)).
			Int("current_markets", len(marketIDs)).
			Msg("Trade cache invalidated by market set change")
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(metrics.CacheTrade).Inc()
	return entry, true
}

// Put stores a generation result for an agent
func (c *Cache) Put(agentID string, entry *CacheEntry) {
	c.mu.Lock()
	c.entries[agentID] = entry
	c.mu.Unlock()
}

// Research returns the last computed research decisions for an agent without
// any freshness check; research reads are best-effort.
func (c *Cache) Research(agentID string) []model.ResearchDecision {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[agentID]
	if !ok {
		return nil
	}
	return entry.Research
}

// Invalidate drops an agent's cached entry
func (c *Cache) Invalidate(agentID string) {
	c.mu.Lock()
	delete(c.entries, agentID)
	c.mu.Unlock()
}
