package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/predictdesk/predictdesk/internal/metrics"
	"github.com/predictdesk/predictdesk/internal/model"
)

// ResponseCache is the micro-cache in front of the vendor, so repeated
// generation attempts inside one TTL window reuse the last answer instead of
// burning another call.
type ResponseCache interface {
	Get(ctx context.Context, key string) (*Decision, bool)
	Set(ctx context.Context, key string, decision *Decision)
}

// CacheKey builds the per-agent-per-market cache key.
func CacheKey(agentID, marketID string) string {
	return "ai:" + agentID + ":" + marketID
}

// MemoryCache is the in-process ResponseCache used when Redis is not
// configured.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	decision Decision
	storedAt time.Time
}

// NewMemoryCache creates an in-process response cache
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns a cached decision if present and fresh
func (c *MemoryCache) Get(_ context.Context, key string) (*Decision, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Since(entry.storedAt) >= c.ttl {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		metrics.CacheMisses.WithLabelValues(metrics.CacheAIResp).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(metrics.CacheAIResp).Inc()
	decision := entry.decision
	return &decision, true
}

// Set stores a decision
func (c *MemoryCache) Set(_ context.Context, key string, decision *Decision) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{decision: *decision, storedAt: time.Now()}
	c.mu.Unlock()
}

// RedisCache is the Redis-backed ResponseCache. Cache errors never fail the
// caller; a broken cache degrades to vendor calls.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed response cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns a cached decision if present
func (c *RedisCache) Get(ctx context.Context, key string) (*Decision, bool) {
	cached, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("cache_key", key).Msg("Redis error during AI cache lookup")
		}
		metrics.CacheMisses.WithLabelValues(metrics.CacheAIResp).Inc()
		return nil, false
	}

	var decision Decision
	if err := json.Unmarshal([]byte(cached), &decision); err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("Failed to unmarshal cached AI decision")
		metrics.CacheMisses.WithLabelValues(metrics.CacheAIResp).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(metrics.CacheAIResp).Inc()
	return &decision, true
}

// Set stores a decision with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, decision *Decision) {
	data, err := json.Marshal(decision)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal AI decision for cache")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("Failed to cache AI decision")
	}
}

// CachedDecider wraps a Decider with a ResponseCache.
type CachedDecider struct {
	decider Decider
	cache   ResponseCache
}

// NewCachedDecider wraps a decider with a response cache
func NewCachedDecider(decider Decider, cache ResponseCache) *CachedDecider {
	return &CachedDecider{decider: decider, cache: cache}
}

// Decide returns the cached decision for this agent-market pair when fresh,
// otherwise delegates and caches the success. Failures are never cached.
func (d *CachedDecider) Decide(ctx context.Context, profile *model.AgentProfile, market model.Market, news []model.NewsArticle) (*Decision, error) {
	key := CacheKey(profile.ID, market.ID)

	if decision, ok := d.cache.Get(ctx, key); ok {
		log.Debug().
			Str("agent_id", profile.ID).
			Str("market_id", market.ID).
			Msg("AI response cache hit")
		return decision, nil
	}

	decision, err := d.decider.Decide(ctx, profile, market, news)
	if err != nil {
		return nil, err
	}

	d.cache.Set(ctx, key, decision)
	return decision, nil
}
