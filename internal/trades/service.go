// Package trades wires the full per-agent decision pipeline behind a cache
// and a request-coalescing layer. GenerateAgentTrades is the only expensive
// entry point and it never returns an error: every failure mode degrades to
// cached, deterministic or empty output.
package trades

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/predictdesk/predictdesk/internal/config"
	"github.com/predictdesk/predictdesk/internal/decision"
	"github.com/predictdesk/predictdesk/internal/feeds"
	"github.com/predictdesk/predictdesk/internal/metrics"
	"github.com/predictdesk/predictdesk/internal/model"
	"github.com/predictdesk/predictdesk/internal/scoring"
)

// Service owns the caches and coalescing state for all agents in the
// process. All state is per-instance; nothing here is a package singleton.
type Service struct {
	profiles map[string]*model.AgentProfile
	markets  *feeds.SafeMarketSource
	news     *feeds.SafeNewsSource
	engine   *decision.Engine
	cache    *Cache
	group    singleflight.Group
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService assembles the pipeline service.
func NewService(profiles []model.AgentProfile, markets feeds.MarketSource, news feeds.NewsSource, engine *decision.Engine, cache *Cache) *Service {
	byID := make(map[string]*model.AgentProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	return &Service{
		profiles: byID,
		markets:  feeds.NewSafeMarketSource(markets),
		news:     feeds.NewSafeNewsSource(news),
		engine:   engine,
		cache:    cache,
		logger:   config.NewLogger("trades"),
		now:      time.Now,
	}
}

// GenerateAgentTrades returns the agent's current trades, generating them if
// no valid cached result exists. Concurrent callers for the same agent share
// one underlying pipeline run. The worst case return is an empty slice,
// never an error.
func (s *Service) GenerateAgentTrades(ctx context.Context, agentID string) []model.AgentTrade {
	profile, ok := s.profiles[agentID]
	if !ok {
		s.logger.Warn().Str("agent_id", agentID).Msg("Unknown agent requested")
		return []model.AgentTrade{}
	}

	// Cheap pre-check: a TTL-fresh result serves immediately, skipping the
	// market and news fetch entirely.
	if trades, ok := s.cache.Quick(agentID); ok {
		return trades
	}

	result, _, shared := s.group.Do(agentID, func() (interface{}, error) {
		return s.generate(ctx, profile), nil
	})
	if shared {
		metrics.CoalescedCalls.Inc()
	}

	trades, ok := result.([]model.AgentTrade)
	if !ok || trades == nil {
		return []model.AgentTrade{}
	}
	return trades
}

// GetAgentResearch is a synchronous read of the last computed research
// decisions for an agent. May be empty; never blocks on generation.
func (s *Service) GetAgentResearch(agentID string) []model.ResearchDecision {
	research := s.cache.Research(agentID)
	if research == nil {
		return []model.ResearchDecision{}
	}
	return research
}

// generate runs the full pipeline for one agent. Exactly one generate per
// agent executes at a time; the singleflight group guarantees it.
func (s *Service) generate(ctx context.Context, profile *model.AgentProfile) []model.AgentTrade {
	start := s.now()
	defer func() {
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	// Market and news fetches are independent; fan out both and join.
	var markets []model.Market
	var news []model.NewsArticle

	g, fetchCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		markets = s.markets.FetchAllMarkets(fetchCtx)
		return nil
	})
	g.Go(func() error {
		news = s.news.FetchLatestNews(fetchCtx)
		return nil
	})
	_ = g.Wait() // sources are guarded and never error

	candidates := scoring.FilterCandidates(markets, profile)
	marketIDs := SortedMarketIDs(candidates)

	// Full validated cache check: TTL plus unchanged candidate set. This
	// supersedes the quick pre-check now that the market set is known.
	if entry, ok := s.cache.Get(profile.ID, marketIDs); ok {
		return entry.Trades
	}

	if len(candidates) == 0 {
		s.logger.Debug().
			Str("agent_id", profile.ID).
			Int("markets", len(markets)).
			Msg("No candidate markets cleared agent thresholds")
		return []model.AgentTrade{}
	}

	now := s.now()
	scored := scoring.ScoreAll(candidates, profile, news, now)
	cycleID := uuid.NewString()

	result := s.engine.EvaluateAgent(ctx, profile, scored, news, now, cycleID)

	s.cache.Put(profile.ID, &CacheEntry{
		Trades:      result.Trades,
		Research:    result.Research,
		GeneratedAt: now,
		MarketIDs:   marketIDs,
	})

	if result.Trades == nil {
		return []model.AgentTrade{}
	}
	return result.Trades
}
