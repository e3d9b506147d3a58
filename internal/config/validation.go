package config

import (
	"fmt"
	"strings"

	"github.com/predictdesk/predictdesk/internal/model"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate performs comprehensive configuration validation
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateApp()...)
	errors = append(errors, c.validateAI()...)
	errors = append(errors, c.validateEngine()...)
	errors = append(errors, c.validateAgents()...)

	if len(errors) > 0 {
		return errors
	}

	return nil
}

func (c *Config) validateApp() ValidationErrors {
	var errors ValidationErrors

	if c.App.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "app.name",
			Message: "Application name is required",
		})
	}

	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		errors = append(errors, ValidationError{
			Field:   "app.environment",
			Message: fmt.Sprintf("Must be development, staging or production, got %q", c.App.Environment),
		})
	}

	switch c.App.LogFormat {
	case "json", "console":
	default:
		errors = append(errors, ValidationError{
			Field:   "app.log_format",
			Message: fmt.Sprintf("Must be json or console, got %q", c.App.LogFormat),
		})
	}

	return errors
}

func (c *Config) validateAI() ValidationErrors {
	var errors ValidationErrors

	if c.AI.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "ai.timeout",
			Message: "AI call timeout must be positive",
		})
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "ai.temperature",
			Message: fmt.Sprintf("Temperature must be in [0, 2], got %v", c.AI.Temperature),
		})
	}

	if c.AI.RequestsPerMinute <= 0 {
		errors = append(errors, ValidationError{
			Field:   "ai.requests_per_minute",
			Message: "Rate limit must be positive",
		})
	}

	if c.AI.Enabled && c.AI.Endpoint == "" {
		errors = append(errors, ValidationError{
			Field:   "ai.endpoint",
			Message: "Endpoint is required when AI decisions are enabled",
		})
	}

	return errors
}

func (c *Config) validateEngine() ValidationErrors {
	var errors ValidationErrors

	if c.Engine.CacheTTL <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.cache_ttl",
			Message: "Trade cache TTL must be positive",
		})
	}

	if c.Engine.ShuffleWindow <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.shuffle_window",
			Message: "Rotation window must be positive",
		})
	}

	if c.Engine.TradeThreshold < 0 || c.Engine.TradeThreshold > 100 {
		errors = append(errors, ValidationError{
			Field:   "engine.trade_threshold",
			Message: fmt.Sprintf("Trade threshold must be in [0, 100], got %d", c.Engine.TradeThreshold),
		})
	}

	return errors
}

func (c *Config) validateAgents() ValidationErrors {
	var errors ValidationErrors

	seen := make(map[string]bool)
	for i, agent := range c.Agents {
		field := fmt.Sprintf("agents[%d]", i)

		if agent.ID == "" {
			errors = append(errors, ValidationError{
				Field:   field + ".id",
				Message: "Agent id is required",
			})
			continue
		}

		if seen[agent.ID] {
			errors = append(errors, ValidationError{
				Field:   field + ".id",
				Message: fmt.Sprintf("Duplicate agent id %q", agent.ID),
			})
		}
		seen[agent.ID] = true

		if agent.MaxTrades <= 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".max_trades",
				Message: "Trade quota must be positive",
			})
		}

		switch agent.Risk {
		case model.RiskLow, model.RiskMedium, model.RiskHigh:
		default:
			errors = append(errors, ValidationError{
				Field:   field + ".risk",
				Message: fmt.Sprintf("Risk must be LOW, MEDIUM or HIGH, got %q", agent.Risk),
			})
		}

		if agent.MinVolume < 0 || agent.MinLiquidity < 0 {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: "Volume and liquidity thresholds must be non-negative",
			})
		}

		w := agent.Weights
		if w.Volume < 0 || w.Liquidity < 0 || w.PriceMovement < 0 || w.News < 0 || w.Probability < 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".weights",
				Message: "Factor weights must be non-negative",
			})
		} else if w.Sum() <= 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".weights",
				Message: "At least one factor weight must be positive",
			})
		}
	}

	return errors
}
