// Package feeds defines the consumed ingestion contracts. The pipeline never
// implements market or news ingestion itself; it talks to these interfaces
// and the guard wrappers enforce the never-throw boundary.
package feeds

import (
	"context"

	"github.com/predictdesk/predictdesk/internal/model"
)

// MarketSource supplies the full market snapshot for one generation cycle.
type MarketSource interface {
	FetchAllMarkets(ctx context.Context) ([]model.Market, error)
}

// NewsSource supplies the latest news snapshot for one generation cycle.
type NewsSource interface {
	FetchLatestNews(ctx context.Context) ([]model.NewsArticle, error)
}

// StaticSource serves fixed in-memory data. Used by the demo daemon and
// tests; it stands in for the real ingestion services.
type StaticSource struct {
	Markets []model.Market
	News    []model.NewsArticle
}

// FetchAllMarkets returns the fixed market set
func (s *StaticSource) FetchAllMarkets(_ context.Context) ([]model.Market, error) {
	return s.Markets, nil
}

// FetchLatestNews returns the fixed news set
func (s *StaticSource) FetchLatestNews(_ context.Context) ([]model.NewsArticle, error) {
	return s.News, nil
}
