package model

import "time"

// Side represents which outcome of a binary market a trade backs.
type Side string

const (
	SideYes Side = "YES"
	SideNo  Side = "NO"
)

// RiskLevel controls base position sizing and confidence multipliers per agent.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// TradeStatus marks whether a simulated position is still open.
type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

// ResearchCall is the analysis-only verdict for markets that were evaluated
// but not traded.
type ResearchCall string

const (
	ResearchYes     ResearchCall = "YES"
	ResearchNo      ResearchCall = "NO"
	ResearchNeutral ResearchCall = "NEUTRAL"
)

// Position sizing constants. StartingCapital is each agent's simulated
// bankroll; it is configuration, not derived state.
const (
	StartingCapital = 3000.0
	MinInvestment   = 130.0
	MaxInvestment   = 0.20 * StartingCapital
	RoundingUnit    = 5.0
)

// Market is an immutable snapshot of a prediction market for one generation
// cycle. Supplied by the market feed, discarded after scoring.
type Market struct {
	ID                 string  `json:"id"`
	Question           string  `json:"question"`
	Category           string  `json:"category"`
	VolumeUSD          float64 `json:"volume_usd"`
	LiquidityUSD       float64 `json:"liquidity_usd"`
	CurrentProbability float64 `json:"current_probability"` // 0.0 to 1.0
	PriceChange24h     float64 `json:"price_change_24h"`
}

// NewsArticle is a news item snapshot used for relevance scoring.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url,omitempty"`
}

// FactorWeights holds the per-factor scoring weights of an agent profile.
type FactorWeights struct {
	Volume        float64 `json:"volume" mapstructure:"volume"`
	Liquidity     float64 `json:"liquidity" mapstructure:"liquidity"`
	PriceMovement float64 `json:"price_movement" mapstructure:"price_movement"`
	News          float64 `json:"news" mapstructure:"news"`
	Probability   float64 `json:"probability" mapstructure:"probability"`
}

// Sum returns the total weight mass, used to normalise the composite score.
func (w FactorWeights) Sum() float64 {
	return w.Volume + w.Liquidity + w.PriceMovement + w.News + w.Probability
}

// AgentProfile is the static trading personality of one agent. Loaded once at
// startup and read-only for the lifetime of the process.
type AgentProfile struct {
	ID              string        `json:"id" mapstructure:"id"`
	DisplayName     string        `json:"display_name" mapstructure:"display_name"`
	MinVolume       float64       `json:"min_volume" mapstructure:"min_volume"`
	MinLiquidity    float64       `json:"min_liquidity" mapstructure:"min_liquidity"`
	MaxTrades       int           `json:"max_trades" mapstructure:"max_trades"`
	Risk            RiskLevel     `json:"risk" mapstructure:"risk"`
	FocusCategories []string      `json:"focus_categories" mapstructure:"focus_categories"`
	Weights         FactorWeights `json:"weights" mapstructure:"weights"`
}

// FocusedOn reports whether category is one of the agent's focus categories.
func (p *AgentProfile) FocusedOn(category string) bool {
	for _, c := range p.FocusCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ResearchQuota is the per-cycle cap on research-only decisions.
func (p *AgentProfile) ResearchQuota() int {
	q := p.MaxTrades * 2
	if q < 6 {
		q = 6
	}
	return q
}

// ScoreComponents breaks a composite score into its named factors. Each
// component is bounded to 0-25 before weighting.
type ScoreComponents struct {
	VolumeScore        float64 `json:"volume_score"`
	LiquidityScore     float64 `json:"liquidity_score"`
	PriceMovementScore float64 `json:"price_movement_score"`
	NewsScore          float64 `json:"news_score"`
	ProbScore          float64 `json:"prob_score"`
}

// ScoredMarket is a market with its agent-specific composite score. Derived
// fresh every generation cycle and never cached standalone.
type ScoredMarket struct {
	Market     Market          `json:"market"`
	Score      float64         `json:"score"` // 0 to 100
	Components ScoreComponents `json:"components"`
}

// AgentTrade is a simulated position opened by an agent on one market within
// one generation cycle. ID is deterministic: "{agentID}:{marketID}".
type AgentTrade struct {
	ID              string      `json:"id"`
	CycleID         string      `json:"cycle_id"`
	AgentID         string      `json:"agent_id"`
	MarketID        string      `json:"market_id"`
	MarketQuestion  string      `json:"market_question"`
	Side            Side        `json:"side"`
	Confidence      float64     `json:"confidence"` // 0.0 to 1.0
	Score           float64     `json:"score"`      // 0 to 100
	Reasoning       []string    `json:"reasoning"`
	Status          TradeStatus `json:"status"`
	PnL             *float64    `json:"pnl"` // nil iff status is OPEN
	InvestmentUSD   float64     `json:"investment_usd"`
	OpenedAt        time.Time   `json:"opened_at"`
	SummaryDecision string      `json:"summary_decision"`
	Seed            string      `json:"seed"`
}

// TradeID builds the deterministic trade identifier for an agent-market pair.
func TradeID(agentID, marketID string) string {
	return agentID + ":" + marketID
}

// ResearchDecision records a market an agent analysed but did not trade.
type ResearchDecision struct {
	ID             string       `json:"id"`
	CycleID        string       `json:"cycle_id"`
	AgentID        string       `json:"agent_id"`
	MarketID       string       `json:"market_id"`
	MarketQuestion string       `json:"market_question"`
	Decision       ResearchCall `json:"decision"`
	Confidence     float64      `json:"confidence"`
	Score          float64      `json:"score"`
	Reasoning      []string     `json:"reasoning"`
	CreatedAt      time.Time    `json:"created_at"`
}
