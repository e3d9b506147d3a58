package scoring

import (
	"math"
	"time"

	"github.com/predictdesk/predictdesk/internal/model"
)

// Each component is bounded to [0, componentMax] before weighting. The
// normalisation constants below are tunable reference values, not a bit-exact
// contract; they were chosen so that a large liquid market with fresh news and
// a contested probability scores near the top of the range.
const (
	componentMax = 25.0

	// Volume/liquidity use log10 scaling for diminishing returns. A market at
	// the reference value earns the full component.
	volumeRefUSD    = 10_000_000.0
	liquidityRefUSD = 1_000_000.0

	// A 10 point (0.10) probability move over 24h earns the full component.
	priceMovementRef = 0.10

	// Each recency-weighted news match is worth this many points.
	newsMatchValue = 6.0

	// Focus-category bonus applied to the composite score.
	focusBonus = 1.10
)

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// logScaled maps v onto [0, componentMax] with diminishing returns relative
// to a reference value.
func logScaled(v, ref float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp(componentMax*math.Log10(1+v)/math.Log10(1+ref), 0, componentMax)
}

// VolumeScore scores trading volume on a log scale.
func VolumeScore(volumeUSD float64) float64 {
	return logScaled(volumeUSD, volumeRefUSD)
}

// LiquidityScore scores available liquidity on a log scale.
func LiquidityScore(liquidityUSD float64) float64 {
	return logScaled(liquidityUSD, liquidityRefUSD)
}

// PriceMovementScore scores the magnitude of the 24h probability move.
func PriceMovementScore(priceChange24h float64) float64 {
	return clamp(componentMax*math.Abs(priceChange24h)/priceMovementRef, 0, componentMax)
}

// NewsScore converts a recency-weighted match count into a bounded component.
func NewsScore(weightedMatches float64) float64 {
	return clamp(weightedMatches*newsMatchValue, 0, componentMax)
}

// ProbScore peaks when the market probability is near 0.5, where uncertainty
// and therefore information value is highest, and decays toward 0 and 1.
func ProbScore(probability float64) float64 {
	p := clamp(probability, 0, 1)
	centered := 1 - 2*math.Abs(p-0.5)
	return componentMax * math.Pow(centered, 1.5)
}

// ScoreMarket computes the agent-specific composite score for one market,
// returning the 0-100 total alongside its named components.
func ScoreMarket(m model.Market, profile *model.AgentProfile, news []model.NewsArticle, now time.Time) model.ScoredMarket {
	match := MatchArticles(m.Question, news)

	components := model.ScoreComponents{
		VolumeScore:        VolumeScore(m.VolumeUSD),
		LiquidityScore:     LiquidityScore(m.LiquidityUSD),
		PriceMovementScore: PriceMovementScore(m.PriceChange24h),
		NewsScore:          NewsScore(WeightedMatchCount(match, now)),
		ProbScore:          ProbScore(m.CurrentProbability),
	}

	w := profile.Weights
	weightSum := w.Sum()
	if weightSum <= 0 {
		return model.ScoredMarket{Market: m, Components: components}
	}

	weighted := components.VolumeScore*w.Volume +
		components.LiquidityScore*w.Liquidity +
		components.PriceMovementScore*w.PriceMovement +
		components.NewsScore*w.News +
		components.ProbScore*w.Probability

	// Normalised weighted mean of 0-25 components, scaled onto 0-100.
	score := weighted / weightSum * (100.0 / componentMax)

	if profile.FocusedOn(m.Category) {
		score *= focusBonus
	}

	return model.ScoredMarket{
		Market:     m,
		Score:      clamp(score, 0, 100),
		Components: components,
	}
}

// ScoreAll scores every candidate market. Ordering and selection belong to
// the decision engine's rotation policy, not here.
func ScoreAll(candidates []model.Market, profile *model.AgentProfile, news []model.NewsArticle, now time.Time) []model.ScoredMarket {
	scored := make([]model.ScoredMarket, 0, len(candidates))
	for _, m := range candidates {
		scored = append(scored, ScoreMarket(m, profile, news, now))
	}
	return scored
}
