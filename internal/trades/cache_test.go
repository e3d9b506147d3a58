package trades

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictdesk/predictdesk/internal/model"
)

func freshEntry(marketIDs []string) *CacheEntry {
	return &CacheEntry{
		Trades:      []model.AgentTrade{{ID: "GROK_4:btc", AgentID: "GROK_4", MarketID: "btc"}},
		Research:    []model.ResearchDecision{{ID: "GROK_4:eth", AgentID: "GROK_4", MarketID: "eth"}},
		GeneratedAt: time.Now(),
		MarketIDs:   marketIDs,
	}
}

func TestSortedMarketIDs(t *testing.T) {
	markets := []model.Market{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	assert.Equal(t, []string{"a", "b", "c"}, SortedMarketIDs(markets))
	assert.Empty(t, SortedMarketIDs(nil))
}

func TestCache_GetPut(t *testing.T) {
	cache := NewCache(2 * time.Minute)
	ids := []string{"btc", "eth"}

	_, ok := cache.Get("GROK_4", ids)
	assert.False(t, ok)

	cache.Put("GROK_4", freshEntry(ids))

	entry, ok := cache.Get("GROK_4", ids)
	require.True(t, ok)
	assert.Len(t, entry.Trades, 1)
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := NewCache(2 * time.Minute)
	ids := []string{"btc"}

	stale := freshEntry(ids)
	stale.GeneratedAt = time.Now().Add(-3 * time.Minute)
	cache.Put("GROK_4", stale)

	_, ok := cache.Get("GROK_4", ids)
	assert.False(t, ok, "Stale entry must not be served")

	// Expiry deletes; a Put with the same ids is needed before the next hit.
	_, ok = cache.Get("GROK_4", ids)
	assert.False(t, ok)
}

func TestCache_MarketSetInvalidation(t *testing.T) {
	cache := NewCache(2 * time.Minute)
	cache.Put("GROK_4", freshEntry([]string{"btc", "eth"}))

	// A changed candidate set invalidates even a TTL-fresh entry.
	_, ok := cache.Get("GROK_4", []string{"btc", "eth", "sol"})
	assert.False(t, ok)

	// And the mismatch deleted the entry outright.
	_, ok = cache.Get("GROK_4", []string{"btc", "eth"})
	assert.False(t, ok)
}

func TestCache_Quick(t *testing.T) {
	cache := NewCache(2 * time.Minute)

	_, ok := cache.Quick("GROK_4")
	assert.False(t, ok)

	cache.Put("GROK_4", freshEntry([]string{"btc"}))

	// Quick ignores the market-id fingerprint entirely.
	trades, ok := cache.Quick("GROK_4")
	require.True(t, ok)
	assert.Len(t, trades, 1)

	stale := freshEntry([]string{"btc"})
	stale.GeneratedAt = time.Now().Add(-3 * time.Minute)
	cache.Put("GROK_4", stale)

	_, ok = cache.Quick("GROK_4")
	assert.False(t, ok)
}

func TestCache_Research(t *testing.T) {
	cache := NewCache(2 * time.Minute)

	assert.Nil(t, cache.Research("GROK_4"))

	cache.Put("GROK_4", freshEntry([]string{"btc"}))
	research := cache.Research("GROK_4")
	require.Len(t, research, 1)
	assert.Equal(t, "GROK_4:eth", research[0].ID)
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(2 * time.Minute)
	ids := []string{"btc"}

	cache.Put("GROK_4", freshEntry(ids))
	cache.Invalidate("GROK_4")

	_, ok := cache.Get("GROK_4", ids)
	assert.False(t, ok)
}

func TestCache_PerAgentIsolation(t *testing.T) {
	cache := NewCache(2 * time.Minute)
	ids := []string{"btc"}

	cache.Put("GROK_4", freshEntry(ids))

	_, ok := cache.Get("GPT_5", ids)
	assert.False(t, ok, "One agent's cache entry must not leak to another")
}
