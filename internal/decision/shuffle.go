package decision

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/predictdesk/predictdesk/internal/model"
)

// agentSeed derives a stable integer from the agent id so different agents
// rotate through different orderings within the same time bucket.
func agentSeed(agentID string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(agentID))
	return int64(h.Sum32())
}

// RotationBucket returns the time bucket for deterministic rotation. Results
// are stable within one window and rotate across windows, which is what lets
// the trade cache stay coherent while repeated calls still see variety.
func RotationBucket(now time.Time, window time.Duration) int64 {
	return now.UnixMilli() / window.Milliseconds()
}

// SortByScore orders scored markets best-first, with the market id as a
// deterministic tie-break.
func SortByScore(scored []model.ScoredMarket) []model.ScoredMarket {
	out := make([]model.ScoredMarket, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Market.ID < out[j].Market.ID
	})
	return out
}

// Rotate applies a time-bucketed deterministic Fisher-Yates shuffle: every
// swap index is a hash of "{bucket+agentSeed}:{i}:{marketID}", so the
// ordering is a pure function of (agent, bucket, candidate set).
func Rotate(scored []model.ScoredMarket, agentID string, now time.Time, window time.Duration) []model.ScoredMarket {
	out := make([]model.ScoredMarket, len(scored))
	copy(out, scored)

	key := RotationBucket(now, window) + agentSeed(agentID)
	for i := len(out) - 1; i > 0; i-- {
		seed := fmt.Sprintf("%d:%d:%s", key, i, out[i].Market.ID)
		j := SeededIndex(seed, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SelectCandidates implements the selection policy: take the top
// maxTrades*5 by score, then rotate them within the current time bucket.
func SelectCandidates(scored []model.ScoredMarket, profile *model.AgentProfile, now time.Time, window time.Duration) []model.ScoredMarket {
	ranked := SortByScore(scored)

	limit := profile.MaxTrades * 5
	if limit > len(ranked) {
		limit = len(ranked)
	}

	return Rotate(ranked[:limit], profile.ID, now, window)
}
