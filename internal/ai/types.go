package ai

import (
	"context"

	"github.com/predictdesk/predictdesk/internal/model"
)

// Decision is the vendor's verdict on one market for one agent.
type Decision struct {
	Side       model.Side `json:"side"`       // "YES" or "NO"
	Confidence float64    `json:"confidence"` // 0.0 to 1.0
	Reasoning  []string   `json:"reasoning"`
}

// Decider is the consumed AI collaborator contract. Implementations may fail
// with a *VendorError carrying a FailureClass; callers are expected to degrade
// to their deterministic path on any error.
type Decider interface {
	Decide(ctx context.Context, profile *model.AgentProfile, market model.Market, news []model.NewsArticle) (*Decision, error)
}

// ChatRequest represents a request to the vendor chat completions API
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatMessage represents a single message in the chat
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatResponse represents the response from the vendor API
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ErrorResponse represents an error payload from the vendor API
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}
