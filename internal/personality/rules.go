package personality

import (
	"fmt"
	"math"
)

// Confidence bounds shared by all rules.
const (
	maxConfidence = 0.95
	minConfidence = 0.40
)

// Momentum rule thresholds.
const (
	momentumProbBand      = 0.05 // |p - 0.5| within this band counts as contested
	momentumMoveThreshold = 10.5 // price movement component required to fire
)

// MomentumBias boosts confidence and size on contested Crypto and Tech
// markets that are moving hard: a strong 24h move near 50% probability reads
// as momentum worth following.
func MomentumBias() Rule {
	return Rule{
		Name: "momentum_bias",
		Apply: func(ctx Context, t Tuple) (Tuple, string) {
			if ctx.Market.Category != "Crypto" && ctx.Market.Category != "Tech" {
				return t, ""
			}
			if math.Abs(ctx.Market.CurrentProbability-0.5) > momentumProbBand {
				return t, ""
			}
			if ctx.Components.PriceMovementScore < momentumMoveThreshold {
				return t, ""
			}

			t.Confidence = math.Min(maxConfidence, t.Confidence+0.05)
			t.SizeUSD *= 1.15
			return t, fmt.Sprintf("momentum: strong 24h move on contested %s market, pressing the position", ctx.Market.Category)
		},
	}
}

// CrowdSkeptic trims confidence and size on crowded one-sided political
// markets with heavy news coverage; by the time everyone agrees, the edge is
// usually gone.
func CrowdSkeptic() Rule {
	return Rule{
		Name: "crowd_skeptic",
		Apply: func(ctx Context, t Tuple) (Tuple, string) {
			if ctx.Market.Category != "Politics" {
				return t, ""
			}
			p := ctx.Market.CurrentProbability
			if p >= 0.2 && p <= 0.8 {
				return t, ""
			}
			if ctx.NewsCount < 3 {
				return t, ""
			}

			t.Confidence = math.Max(minConfidence, t.Confidence-0.05)
			t.SizeUSD *= 0.75
			return t, "crowd skepticism: one-sided political market with saturated coverage, fading conviction"
		},
	}
}

// SportsNearTerm leans into sports markets, which resolve quickly and price
// in news fast.
func SportsNearTerm() Rule {
	return Rule{
		Name: "sports_near_term",
		Apply: func(ctx Context, t Tuple) (Tuple, string) {
			if ctx.Market.Category != "Sports" {
				return t, ""
			}

			t.Confidence = math.Min(maxConfidence, t.Confidence+0.03)
			t.SizeUSD *= 1.10
			return t, "near-term sports event, modest boost for fast resolution"
		},
	}
}
