// Package sizing converts confidence and score into a bounded USD investment.
package sizing

import (
	"math"

	"github.com/predictdesk/predictdesk/internal/model"
)

// BaseSizeUSD is the reference position the personality multiplier is
// expressed against: a rule that sets SizeUSD to 115 means "size up 15%".
const BaseSizeUSD = 100.0

// Base risk amounts in USD per risk level.
const (
	baseRiskLow    = 50.0
	baseRiskMedium = 100.0
	baseRiskHigh   = 150.0
)

func baseRisk(risk model.RiskLevel) float64 {
	switch risk {
	case model.RiskLow:
		return baseRiskLow
	case model.RiskHigh:
		return baseRiskHigh
	default:
		return baseRiskMedium
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// PositionSize computes the bounded investment for a trade.
//
// The multipliers are multiplicative on purpose: confidence and score each
// scale the base risk amount within their own caps, the personality size
// ratio applies last, and the product is clamped to the investment bounds
// before rounding to the unit. The rounded value is re-clamped so rounding
// can never push it out of range.
func PositionSize(confidence, score float64, risk model.RiskLevel, personalitySizeUSD float64) float64 {
	confidenceMultiplier := clamp(confidence*1.2, 0.7, 1.8)
	scoreMultiplier := 0.6 + 0.9*clamp(score/50.0, 0, 1)

	investment := baseRisk(risk) * confidenceMultiplier * scoreMultiplier * (personalitySizeUSD / BaseSizeUSD)
	investment = clamp(investment, model.MinInvestment, model.MaxInvestment)

	rounded := math.Round(investment/model.RoundingUnit) * model.RoundingUnit
	return clamp(rounded, model.MinInvestment, model.MaxInvestment)
}
