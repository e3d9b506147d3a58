package decision

import (
	"fmt"

	"github.com/predictdesk/predictdesk/internal/model"
)

// Confidence bounds for fallback decisions.
const (
	minFallbackConfidence = 0.40
	maxFallbackConfidence = 0.95

	// yesBias is the probability mass pointed at the side the market already
	// leans toward.
	yesBias = 0.60
)

// riskMultiplier scales confidence by agent risk appetite.
func riskMultiplier(risk model.RiskLevel) float64 {
	switch risk {
	case model.RiskHigh:
		return 1.05
	case model.RiskLow:
		return 0.90
	default:
		return 1.0
	}
}

// FallbackSeed builds the deterministic seed for an attempt:
// "{agentID}:{marketID}:{index}".
func FallbackSeed(agentID, marketID string, index int) string {
	return fmt.Sprintf("%s:%s:%d", agentID, marketID, index)
}

// FallbackSide picks a side from the seed with a probability-aware bias: 60%
// toward YES when the market already leans YES, 60% toward NO otherwise.
// Pure: fixed seed and probability always give the same side.
func FallbackSide(seed string, currentProbability float64) model.Side {
	r := SeededFloat(seed)
	if currentProbability > 0.5 {
		if r < yesBias {
			return model.SideYes
		}
		return model.SideNo
	}
	if r < yesBias {
		return model.SideNo
	}
	return model.SideYes
}

// FallbackConfidence derives confidence from the composite score, scaled by
// the risk multiplier with a deterministic ±5% jitter, clamped to
// [0.40, 0.95]. Pure for fixed inputs.
func FallbackConfidence(seed string, score float64, risk model.RiskLevel) float64 {
	jitter := 0.95 + 0.10*SeededFloat(seed+":jitter")
	confidence := score / 100.0 * riskMultiplier(risk) * jitter

	if confidence < minFallbackConfidence {
		return minFallbackConfidence
	}
	if confidence > maxFallbackConfidence {
		return maxFallbackConfidence
	}
	return confidence
}

// ApplyRiskMultiplier adjusts an AI-provided confidence by the agent's risk
// level: HIGH scales up capped at 0.95, LOW scales down floored at 0.40.
func ApplyRiskMultiplier(confidence float64, risk model.RiskLevel) float64 {
	switch risk {
	case model.RiskHigh:
		adjusted := confidence * 1.05
		if adjusted > 0.95 {
			return 0.95
		}
		return adjusted
	case model.RiskLow:
		adjusted := confidence * 0.90
		if adjusted < 0.40 {
			return 0.40
		}
		return adjusted
	default:
		return confidence
	}
}

// Component thresholds for reasoning templates.
const (
	reasonVolumeThreshold    = 15.0
	reasonLiquidityThreshold = 15.0
	reasonMovementThreshold  = 10.0
	reasonNewsThreshold      = 12.0
	reasonProbThreshold      = 18.0
)

// BuildReasoning assembles template sentences from the score components that
// cleared their thresholds. The output is never empty, so even the fully
// offline path produces an explainable decision.
func BuildReasoning(sm model.ScoredMarket, side model.Side) []string {
	c := sm.Components
	var reasons []string

	if c.VolumeScore >= reasonVolumeThreshold {
		reasons = append(reasons, fmt.Sprintf("Trading volume of $%.0f signals sustained market attention.", sm.Market.VolumeUSD))
	}
	if c.LiquidityScore >= reasonLiquidityThreshold {
		reasons = append(reasons, fmt.Sprintf("Liquidity of $%.0f keeps entry and exit costs low.", sm.Market.LiquidityUSD))
	}
	if c.PriceMovementScore >= reasonMovementThreshold {
		reasons = append(reasons, fmt.Sprintf("A %+.1f point move over 24h suggests new information is being priced in.", sm.Market.PriceChange24h*100))
	}
	if c.NewsScore >= reasonNewsThreshold {
		reasons = append(reasons, "Dense recent news coverage raises the chance of a near-term repricing.")
	}
	if c.ProbScore >= reasonProbThreshold {
		reasons = append(reasons, fmt.Sprintf("At %.0f%% the market is near maximum uncertainty, where analysis adds the most value.", sm.Market.CurrentProbability*100))
	}

	reasons = append(reasons, fmt.Sprintf("Composite score of %.0f supports taking the %s side.", sm.Score, side))
	return reasons
}
