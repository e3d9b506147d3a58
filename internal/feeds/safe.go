package feeds

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/predictdesk/predictdesk/internal/model"
)

// SafeMarketSource enforces the never-throw contract on a MarketSource:
// upstream errors and panics degrade to the last good snapshot, or an empty
// slice when none exists yet.
type SafeMarketSource struct {
	source MarketSource

	mu       sync.RWMutex
	lastGood []model.Market
	hasStale bool
}

// NewSafeMarketSource wraps a market source with the never-throw guard
func NewSafeMarketSource(source MarketSource) *SafeMarketSource {
	return &SafeMarketSource{source: source}
}

// FetchAllMarkets never returns an error.
func (s *SafeMarketSource) FetchAllMarkets(ctx context.Context) []model.Market {
	markets, err := func() (markets []model.Market, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("Market source panicked")
				markets, err = nil, nil
			}
		}()
		return s.source.FetchAllMarkets(ctx)
	}()

	if err != nil || markets == nil {
		if err != nil {
			log.Warn().Err(err).Msg("Market fetch failed, serving stale snapshot")
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.hasStale {
			return s.lastGood
		}
		return []model.Market{}
	}

	s.mu.Lock()
	s.lastGood = markets
	s.hasStale = true
	s.mu.Unlock()

	return markets
}

// SafeNewsSource enforces the never-throw contract on a NewsSource. News is
// advisory, so failures degrade to empty rather than stale: scoring a market
// against day-old headlines as if they were current is worse than scoring it
// with none.
type SafeNewsSource struct {
	source NewsSource
}

// NewSafeNewsSource wraps a news source with the never-throw guard
func NewSafeNewsSource(source NewsSource) *SafeNewsSource {
	return &SafeNewsSource{source: source}
}

// FetchLatestNews never returns an error.
func (s *SafeNewsSource) FetchLatestNews(ctx context.Context) []model.NewsArticle {
	articles, err := func() (articles []model.NewsArticle, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("News source panicked")
				articles, err = nil, nil
			}
		}()
		return s.source.FetchLatestNews(ctx)
	}()

	if err != nil {
		log.Warn().Err(err).Msg("News fetch failed, continuing without news")
		return []model.NewsArticle{}
	}
	if articles == nil {
		return []model.NewsArticle{}
	}
	return articles
}
