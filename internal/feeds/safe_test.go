package feeds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictdesk/predictdesk/internal/model"
)

// scriptedMarketSource replays a sequence of outcomes, one per fetch.
type scriptedMarketSource struct {
	outcomes []func() ([]model.Market, error)
	calls    int
}

func (s *scriptedMarketSource) FetchAllMarkets(context.Context) ([]model.Market, error) {
	outcome := s.outcomes[s.calls]
	s.calls++
	return outcome()
}

func markets(ids ...string) []model.Market {
	out := make([]model.Market, len(ids))
	for i, id := range ids {
		out[i] = model.Market{ID: id}
	}
	return out
}

func TestSafeMarketSource_StaleFallback(t *testing.T) {
	source := &scriptedMarketSource{outcomes: []func() ([]model.Market, error){
		func() ([]model.Market, error) { return markets("btc", "eth"), nil },
		func() ([]model.Market, error) { return nil, errors.New("upstream down") },
	}}
	safe := NewSafeMarketSource(source)
	ctx := context.Background()

	first := safe.FetchAllMarkets(ctx)
	require.Len(t, first, 2)

	// The failed fetch serves the last good snapshot.
	second := safe.FetchAllMarkets(ctx)
	assert.Equal(t, first, second)
}

func TestSafeMarketSource_EmptyBeforeFirstSuccess(t *testing.T) {
	source := &scriptedMarketSource{outcomes: []func() ([]model.Market, error){
		func() ([]model.Market, error) { return nil, errors.New("upstream down") },
	}}
	safe := NewSafeMarketSource(source)

	got := safe.FetchAllMarkets(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSafeMarketSource_RecoversPanic(t *testing.T) {
	source := &scriptedMarketSource{outcomes: []func() ([]model.Market, error){
		func() ([]model.Market, error) { return markets("btc"), nil },
		func() ([]model.Market, error) { panic("ingestion bug") },
	}}
	safe := NewSafeMarketSource(source)
	ctx := context.Background()

	first := safe.FetchAllMarkets(ctx)

	var second []model.Market
	assert.NotPanics(t, func() { second = safe.FetchAllMarkets(ctx) })
	assert.Equal(t, first, second, "A panicking source degrades to the stale snapshot")
}

type failingNews struct{}

func (failingNews) FetchLatestNews(context.Context) ([]model.NewsArticle, error) {
	return nil, errors.New("feed down")
}

type panickingNews struct{}

func (panickingNews) FetchLatestNews(context.Context) ([]model.NewsArticle, error) {
	panic("feed bug")
}

func TestSafeNewsSource_EmptyOnFailure(t *testing.T) {
	safe := NewSafeNewsSource(failingNews{})

	got := safe.FetchLatestNews(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got, "News failures degrade to empty, never stale")
}

func TestSafeNewsSource_RecoversPanic(t *testing.T) {
	safe := NewSafeNewsSource(panickingNews{})

	var got []model.NewsArticle
	assert.NotPanics(t, func() { got = safe.FetchLatestNews(context.Background()) })
	assert.Empty(t, got)
}

func TestSafeNewsSource_PassThrough(t *testing.T) {
	static := &StaticSource{News: []model.NewsArticle{{Title: "Bitcoin climbs"}}}
	safe := NewSafeNewsSource(static)

	got := safe.FetchLatestNews(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "Bitcoin climbs", got[0].Title)
}
