// Package personality implements the per-agent rule override pipeline. Rules
// are pure functions folded over an immutable tuple; there is no shared
// mutable context threaded between them.
package personality

import (
	"github.com/predictdesk/predictdesk/internal/model"
)

// Context is the read-only view a rule gets of the decision being adjusted.
type Context struct {
	Profile   *model.AgentProfile
	Market    model.Market
	Score     float64
	Components model.ScoreComponents
	NewsCount int
}

// Tuple is the decision state flowing through the pipeline. Each rule returns
// a complete replacement, so the last matching rule wins on every field.
type Tuple struct {
	Side       model.Side
	Confidence float64
	SizeUSD    float64
}

// Rule adjusts a decision tuple. A rule that does not apply must return the
// input tuple unchanged and an empty note.
type Rule struct {
	Name  string
	Apply func(ctx Context, t Tuple) (Tuple, string)
}

// Result is the outcome of running a pipeline: the final tuple plus the notes
// of every rule that fired, in registration order.
type Result struct {
	Tuple Tuple
	Notes []string
}

// Pipeline is an ordered list of rules registered for one agent.
type Pipeline struct {
	rules []Rule
}

// NewPipeline builds a pipeline from rules applied in the given order.
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// Run folds the tuple through every rule in order. Each rule's full output
// replaces the prior state before the next rule runs; notes accumulate.
func (p *Pipeline) Run(ctx Context, initial Tuple) Result {
	result := Result{Tuple: initial}
	if p == nil {
		return result
	}
	for _, rule := range p.rules {
		next, note := rule.Apply(ctx, result.Tuple)
		result.Tuple = next
		if note != "" {
			result.Notes = append(result.Notes, note)
		}
	}
	return result
}

// Registry maps agent ids to their personality pipelines. Agents without an
// entry run the decision through unchanged.
type Registry struct {
	pipelines map[string]*Pipeline
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[string]*Pipeline)}
}

// Register assigns a pipeline to an agent, replacing any previous one.
func (r *Registry) Register(agentID string, pipeline *Pipeline) {
	r.pipelines[agentID] = pipeline
}

// ForAgent returns the agent's pipeline, or nil when none is registered.
func (r *Registry) ForAgent(agentID string) *Pipeline {
	if r == nil {
		return nil
	}
	return r.pipelines[agentID]
}

// DefaultRegistry wires the builtin rules onto the default agent roster.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("GROK_4", NewPipeline(MomentumBias(), CrowdSkeptic()))
	r.Register("GPT_5", NewPipeline(CrowdSkeptic()))
	r.Register("GEMINI_PRO", NewPipeline(SportsNearTerm(), MomentumBias()))
	return r
}
