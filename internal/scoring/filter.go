package scoring

import "github.com/predictdesk/predictdesk/internal/model"

// Eligible reports whether a market clears an agent's hard thresholds.
// Category focus is deliberately not enforced here; it only biases the score.
func Eligible(m model.Market, profile *model.AgentProfile) bool {
	if m.ID == "" {
		return false
	}
	if m.VolumeUSD < profile.MinVolume {
		return false
	}
	if m.LiquidityUSD < profile.MinLiquidity {
		return false
	}
	return true
}

// FilterCandidates narrows the full market set to those meeting the agent's
// minimum volume and liquidity thresholds. An empty result is valid and
// propagates to an empty trade list downstream.
func FilterCandidates(markets []model.Market, profile *model.AgentProfile) []model.Market {
	candidates := make([]model.Market, 0, len(markets))
	for _, m := range markets {
		if Eligible(m, profile) {
			candidates = append(candidates, m)
		}
	}
	return candidates
}
