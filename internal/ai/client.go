package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/predictdesk/predictdesk/internal/metrics"
	"github.com/predictdesk/predictdesk/internal/model"
)

// Client talks to an OpenAI-compatible chat completions gateway and turns
// completions into trade decisions. It implements Decider.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	httpClient  *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

// ClientConfig contains configuration for the AI client
type ClientConfig struct {
	Endpoint          string
	APIKey            string
	Model             string
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewClient creates a new AI vendor client
func NewClient(config ClientConfig) *Client {
	if config.Endpoint == "" {
		config.Endpoint = "http://localhost:8080/v1/chat/completions"
	}
	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 60
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "ai-vendor",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("AI circuit breaker state changed")
		},
	})

	return &Client{
		endpoint:    config.Endpoint,
		apiKey:      config.APIKey,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		timeout:     config.Timeout,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), 1),
		breaker: breaker,
	}
}

// Decide asks the vendor for a side, confidence and reasoning on one market.
// Every failure is returned as a *VendorError so the decision engine can
// branch on the class and fall back deterministically.
func (c *Client) Decide(ctx context.Context, profile *model.AgentProfile, market model.Market, news []model.NewsArticle) (*Decision, error) {
	if c.apiKey == "" {
		// Short-circuit: no credentials means no network attempt at all.
		return nil, newVendorError(FailureConfiguration, "no API key configured", nil)
	}

	// Sequential per-market calls respect the vendor rate limit; the limiter
	// makes that explicit instead of relying on caller discipline.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newVendorError(ClassifyError(err), "rate limiter wait aborted", err)
	}

	metrics.AICalls.Inc()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, profile, market, news)
	})
	if err != nil {
		var ve *VendorError
		if !errors.As(err, &ve) {
			ve = newVendorError(ClassifyError(err), "vendor call failed", err)
		}
		metrics.AIFailures.WithLabelValues(string(ve.Class)).Inc()
		return nil, ve
	}

	return result.(*Decision), nil
}

func (c *Client) complete(ctx context.Context, profile *model.AgentProfile, market model.Market, news []model.NewsArticle) (*Decision, error) {
	request := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt(profile)},
			{Role: "user", Content: marketPrompt(market, news)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, newVendorError(FailureUnknown, "failed to marshal request", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, newVendorError(FailureUnknown, "failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debug().
		Str("endpoint", c.endpoint).
		Str("model", c.model).
		Str("agent_id", profile.ID).
		Str("market_id", market.ID).
		Int("news_items", len(news)).
		Msg("Sending AI decision request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newVendorError(ClassifyError(err), "request failed", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newVendorError(FailureNetwork, "failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		class := classifyHTTPFailure(resp.StatusCode, string(body))
		var errResp ErrorResponse
		msg := fmt.Sprintf("vendor returned status %d", resp.StatusCode)
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error.Message != "" {
			msg = errResp.Error.Message
		}
		return nil, newVendorError(class, msg, nil)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, newVendorError(FailureParse, "response is not valid JSON", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, newVendorError(FailureParse, "no choices in response", nil)
	}

	content := chatResp.Choices[0].Message.Content
	if IsRefusal(content) {
		return nil, newVendorError(FailureRefusal, "vendor declined to decide", nil)
	}

	decision, err := parseDecision(content)
	if err != nil {
		return nil, newVendorError(FailureParse, "failed to parse decision", err)
	}

	log.Debug().
		Str("agent_id", profile.ID).
		Str("market_id", market.ID).
		Str("side", string(decision.Side)).
		Float64("confidence", decision.Confidence).
		Dur("duration", duration).
		Msg("AI decision received")

	return decision, nil
}

// parseDecision extracts and validates a Decision from completion text.
func parseDecision(content string) (*Decision, error) {
	content = extractJSONFromMarkdown(content)

	var decision Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if decision.Side != model.SideYes && decision.Side != model.SideNo {
		return nil, fmt.Errorf("invalid side %q", decision.Side)
	}
	if decision.Confidence < 0 || decision.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v out of range", decision.Confidence)
	}
	if len(decision.Reasoning) == 0 {
		return nil, fmt.Errorf("empty reasoning")
	}

	return &decision, nil
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(content string) string {
	start := -1
	end := -1

	contentBytes := []byte(content)
	if idx := bytes.Index(contentBytes, []byte("```json")); idx >= 0 {
		start = idx + 7
	} else if idx := bytes.Index(contentBytes, []byte("```")); idx >= 0 {
		start = idx + 3
	}

	if start >= 0 {
		if idx := bytes.Index(contentBytes[start:], []byte("```")); idx >= 0 {
			end = start + idx
			content = content[start:end]
		}
	}

	return string(bytes.TrimSpace([]byte(content)))
}
