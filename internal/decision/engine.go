package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/predictdesk/predictdesk/internal/ai"
	"github.com/predictdesk/predictdesk/internal/config"
	"github.com/predictdesk/predictdesk/internal/metrics"
	"github.com/predictdesk/predictdesk/internal/model"
	"github.com/predictdesk/predictdesk/internal/personality"
	"github.com/predictdesk/predictdesk/internal/scoring"
	"github.com/predictdesk/predictdesk/internal/sizing"
)

// Decisions with confidence below this render as NEUTRAL research calls.
const neutralConfidenceCutoff = 0.55

// Engine runs each candidate market through the decision state machine:
//
//	CANDIDATE -> {AI_DECIDED | FALLBACK_DECIDED} -> {TRADE | RESEARCH | SKIPPED}
//
// AI failure of any class degrades to the deterministic fallback; no failure
// ever escapes the engine.
type Engine struct {
	decider   ai.Decider // nil means deterministic-only
	rules     *personality.Registry
	threshold float64
	window    time.Duration
	logger    zerolog.Logger
}

// NewEngine creates a decision engine. A nil decider skips the AI path
// entirely and goes straight to the deterministic fallback.
func NewEngine(decider ai.Decider, rules *personality.Registry, threshold float64, window time.Duration) *Engine {
	return &Engine{
		decider:   decider,
		rules:     rules,
		threshold: threshold,
		window:    window,
		logger:    config.NewLogger("decision"),
	}
}

// CycleResult is everything one evaluation pass produced for an agent.
type CycleResult struct {
	Trades   []model.AgentTrade
	Research []model.ResearchDecision
}

// EvaluateAgent runs selection and decision for one agent over its scored
// candidates. Markets are attempted sequentially, one AI call at a time, to
// respect vendor rate limits over latency.
func (e *Engine) EvaluateAgent(ctx context.Context, profile *model.AgentProfile, scored []model.ScoredMarket, news []model.NewsArticle, now time.Time, cycleID string) CycleResult {
	candidates := SelectCandidates(scored, profile, now, e.window)

	maxAttempts := profile.MaxTrades * 3
	if maxAttempts > len(candidates) {
		maxAttempts = len(candidates)
	}
	researchQuota := profile.ResearchQuota()

	var result CycleResult
	researched := make(map[string]bool)

	for i := 0; i < maxAttempts; i++ {
		if len(result.Trades) >= profile.MaxTrades && len(result.Research) >= researchQuota {
			break
		}

		sm := candidates[i]

		if len(result.Trades) < profile.MaxTrades {
			if trade := e.GenerateTradeForMarket(ctx, profile, sm, news, i, now, cycleID); trade != nil {
				result.Trades = append(result.Trades, *trade)
				continue
			}
		}

		if len(result.Research) < researchQuota && !researched[sm.Market.ID] {
			researched[sm.Market.ID] = true
			result.Research = append(result.Research, e.ResearchMarket(profile, sm, i, now, cycleID))
		}
	}

	e.logger.Info().
		Str("agent_id", profile.ID).
		Str("cycle_id", cycleID).
		Int("candidates", len(candidates)).
		Int("trades", len(result.Trades)).
		Int("research", len(result.Research)).
		Msg("Agent evaluation complete")

	return result
}

// GenerateTradeForMarket produces a sized trade for one scored market, or nil
// when the market does not clear the trade threshold. Below-threshold markets
// remain eligible for research only.
func (e *Engine) GenerateTradeForMarket(ctx context.Context, profile *model.AgentProfile, sm model.ScoredMarket, news []model.NewsArticle, index int, now time.Time, cycleID string) *model.AgentTrade {
	if sm.Score < e.threshold {
		metrics.DecisionsGenerated.WithLabelValues(metrics.DecisionSkipped).Inc()
		return nil
	}

	seed := FallbackSeed(profile.ID, sm.Market.ID, index)
	match := scoring.MatchArticles(sm.Market.Question, news)

	side, confidence, reasoning := e.decide(ctx, profile, sm, match.Articles, seed)

	// Personality overrides run as a pure fold; the last matching rule wins
	// on side, confidence and size, notes accumulate in order.
	pResult := e.rules.ForAgent(profile.ID).Run(personality.Context{
		Profile:    profile,
		Market:     sm.Market,
		Score:      sm.Score,
		Components: sm.Components,
		NewsCount:  match.Count,
	}, personality.Tuple{
		Side:       side,
		Confidence: confidence,
		SizeUSD:    sizing.BaseSizeUSD,
	})

	investment := sizing.PositionSize(pResult.Tuple.Confidence, sm.Score, profile.Risk, pResult.Tuple.SizeUSD)
	reasoning = append(reasoning, pResult.Notes...)

	metrics.DecisionsGenerated.WithLabelValues(metrics.DecisionTrade).Inc()

	return &model.AgentTrade{
		ID:              model.TradeID(profile.ID, sm.Market.ID),
		CycleID:         cycleID,
		AgentID:         profile.ID,
		MarketID:        sm.Market.ID,
		MarketQuestion:  sm.Market.Question,
		Side:            pResult.Tuple.Side,
		Confidence:      pResult.Tuple.Confidence,
		Score:           sm.Score,
		Reasoning:       reasoning,
		Status:          model.StatusOpen,
		PnL:             nil,
		InvestmentUSD:   investment,
		OpenedAt:        now,
		SummaryDecision: fmt.Sprintf("%s at %.0f%% confidence", pResult.Tuple.Side, pResult.Tuple.Confidence*100),
		Seed:            seed,
	}
}

// decide attempts the AI collaborator first and falls back to the
// deterministic path on any classified failure.
func (e *Engine) decide(ctx context.Context, profile *model.AgentProfile, sm model.ScoredMarket, relevantNews []model.NewsArticle, seed string) (model.Side, float64, []string) {
	if e.decider != nil {
		aiDecision, err := e.decider.Decide(ctx, profile, sm.Market, relevantNews)
		if err == nil {
			return aiDecision.Side, ApplyRiskMultiplier(aiDecision.Confidence, profile.Risk), aiDecision.Reasoning
		}

		e.logFailure(err, profile.ID, sm.Market.ID)
	}

	side := FallbackSide(seed, sm.Market.CurrentProbability)
	confidence := FallbackConfidence(seed, sm.Score, profile.Risk)
	return side, confidence, BuildReasoning(sm, side)
}

// logFailure logs AI failures at a level matching their class: expected,
// non-actionable conditions stay out of warn-level logs.
func (e *Engine) logFailure(err error, agentID, marketID string) {
	class := ai.ClassifyError(err)

	event := e.logger.Warn()
	if class == ai.FailureAccessDenied || class == ai.FailureConfiguration {
		event = e.logger.Debug()
	}
	event.
		Err(err).
		Str("class", string(class)).
		Str("agent_id", agentID).
		Str("market_id", marketID).
		Msg("AI decision failed, using deterministic fallback")
}

// ResearchMarket produces an analysis-only record using the same
// deterministic inference as the trade fallback, without position sizing.
func (e *Engine) ResearchMarket(profile *model.AgentProfile, sm model.ScoredMarket, index int, now time.Time, cycleID string) model.ResearchDecision {
	seed := FallbackSeed(profile.ID, sm.Market.ID, index)
	side := FallbackSide(seed, sm.Market.CurrentProbability)
	confidence := FallbackConfidence(seed, sm.Score, profile.Risk)

	call := model.ResearchCall(side)
	if confidence < neutralConfidenceCutoff {
		call = model.ResearchNeutral
	}

	metrics.DecisionsGenerated.WithLabelValues(metrics.DecisionResearch).Inc()

	return model.ResearchDecision{
		ID:             model.TradeID(profile.ID, sm.Market.ID),
		CycleID:        cycleID,
		AgentID:        profile.ID,
		MarketID:       sm.Market.ID,
		MarketQuestion: sm.Market.Question,
		Decision:       call,
		Confidence:     confidence,
		Score:          sm.Score,
		Reasoning:      BuildReasoning(sm, side),
		CreatedAt:      now,
	}
}
