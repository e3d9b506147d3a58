package main

import (
	"time"

	"github.com/predictdesk/predictdesk/internal/feeds"
	"github.com/predictdesk/predictdesk/internal/model"
)

// Fixture data standing in for the ingestion services. The real deployment
// swaps these for live market and news sources behind the same interfaces.

func fixtureMarkets() feeds.MarketSource {
	return &feeds.StaticSource{
		Markets: []model.Market{
			{
				ID:                 "btc-150k-2026",
				Question:           "Will Bitcoin close above $150,000 before the end of 2026?",
				Category:           "Crypto",
				VolumeUSD:          4_200_000,
				LiquidityUSD:       610_000,
				CurrentProbability: 0.48,
				PriceChange24h:     0.07,
			},
			{
				ID:                 "fed-cut-september",
				Question:           "Will the Federal Reserve cut interest rates in September?",
				Category:           "Politics",
				VolumeUSD:          9_800_000,
				LiquidityUSD:       1_250_000,
				CurrentProbability: 0.86,
				PriceChange24h:     0.03,
			},
			{
				ID:                 "openai-gpt6-q1",
				Question:           "Will OpenAI release GPT-6 before April?",
				Category:           "Tech",
				VolumeUSD:          1_700_000,
				LiquidityUSD:       240_000,
				CurrentProbability: 0.31,
				PriceChange24h:     -0.05,
			},
			{
				ID:                 "fifa-final-brazil",
				Question:           "Will Brazil reach the World Cup final?",
				Category:           "Sports",
				VolumeUSD:          3_100_000,
				LiquidityUSD:       480_000,
				CurrentProbability: 0.22,
				PriceChange24h:     0.02,
			},
			{
				ID:                 "eth-etf-inflows",
				Question:           "Will Ethereum spot ETFs see net inflows above $1B this quarter?",
				Category:           "Crypto",
				VolumeUSD:          2_400_000,
				LiquidityUSD:       390_000,
				CurrentProbability: 0.52,
				PriceChange24h:     0.09,
			},
			{
				ID:                 "mars-sample-return",
				Question:           "Will the Mars sample return mission launch on schedule?",
				Category:           "Science",
				VolumeUSD:          620_000,
				LiquidityUSD:       95_000,
				CurrentProbability: 0.14,
				PriceChange24h:     -0.01,
			},
		},
	}
}

func fixtureNews() feeds.NewsSource {
	now := time.Now()
	return &feeds.StaticSource{
		News: []model.NewsArticle{
			{
				ID:          "n1",
				Title:       "Bitcoin rallies past $140,000 as institutional demand accelerates",
				Description: "Spot ETF inflows hit a weekly record.",
				Source:      "CoinDesk",
				PublishedAt: now.Add(-2 * time.Hour),
			},
			{
				ID:          "n2",
				Title:       "Federal Reserve officials signal openness to a September rate move",
				Description: "Markets now price a cut at near certainty.",
				Source:      "Reuters",
				PublishedAt: now.Add(-5 * time.Hour),
			},
			{
				ID:          "n3",
				Title:       "Ethereum staking yields climb as network activity surges",
				Source:      "The Block",
				PublishedAt: now.Add(-26 * time.Hour),
			},
			{
				ID:          "n4",
				Title:       "Brazil squad announcement sparks debate ahead of qualifiers",
				Source:      "ESPN",
				PublishedAt: now.Add(-9 * time.Hour),
			},
		},
	}
}
