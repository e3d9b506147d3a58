package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/predictdesk/predictdesk/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	// No config file on the search path falls back to defaults plus the
	// builtin roster.
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "PredictDesk", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 30*time.Second, cfg.AI.GetTimeout())
	assert.Equal(t, 2*time.Minute, cfg.Engine.GetCacheTTL())
	assert.Equal(t, 5*time.Second, cfg.Engine.GetShuffleWindow())
	assert.Equal(t, 10, cfg.Engine.TradeThreshold)
	assert.Len(t, cfg.Agents, 4)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
app:
  name: testdesk
  environment: production
  log_level: debug
  log_format: json
engine:
  cache_ttl: 30
  trade_threshold: 25
agents:
  - id: SOLO
    display_name: Solo
    max_trades: 1
    risk: MEDIUM
    weights:
      volume: 1.0
      liquidity: 1.0
      price_movement: 1.0
      news: 1.0
      probability: 1.0
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testdesk", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, 30*time.Second, cfg.Engine.GetCacheTTL())
	assert.Equal(t, 25, cfg.Engine.TradeThreshold)
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, "SOLO", cfg.Agents[0].ID)
	// Unset engine fields keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Engine.GetShuffleWindow())
}

func TestLoad_InvalidConfig(t *testing.T) {
	content := `
app:
  name: ""
  environment: chaos
  log_format: json
agents:
  - id: A
    max_trades: 1
    risk: MEDIUM
    weights: {volume: 1}
  - id: A
    max_trades: 1
    risk: MEDIUM
    weights: {volume: 1}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.name")
	assert.Contains(t, err.Error(), "app.environment")
	assert.Contains(t, err.Error(), "Duplicate agent id")
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "PredictDesk",
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "console",
		},
		AI: AIConfig{
			Timeout:           30000,
			Temperature:       0.7,
			RequestsPerMinute: 60,
		},
		Engine: EngineConfig{
			CacheTTL:       120,
			ShuffleWindow:  5000,
			TradeThreshold: 10,
		},
		Agents: DefaultAgents(),
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing name", func(c *Config) { c.App.Name = "" }, "app.name"},
		{"bad environment", func(c *Config) { c.App.Environment = "qa" }, "app.environment"},
		{"bad log format", func(c *Config) { c.App.LogFormat = "xml" }, "app.log_format"},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, "ai.timeout"},
		{"temperature out of range", func(c *Config) { c.AI.Temperature = 3 }, "ai.temperature"},
		{"ai enabled without endpoint", func(c *Config) { c.AI.Enabled = true; c.AI.Endpoint = "" }, "ai.endpoint"},
		{"zero cache ttl", func(c *Config) { c.Engine.CacheTTL = 0 }, "engine.cache_ttl"},
		{"threshold out of range", func(c *Config) { c.Engine.TradeThreshold = 150 }, "engine.trade_threshold"},
		{"agent without id", func(c *Config) { c.Agents[0].ID = "" }, ".id"},
		{"zero trade quota", func(c *Config) { c.Agents[0].MaxTrades = 0 }, "max_trades"},
		{"bad risk", func(c *Config) { c.Agents[0].Risk = "EXTREME" }, ".risk"},
		{"negative weight", func(c *Config) { c.Agents[0].Weights.News = -1 }, ".weights"},
		{"all-zero weights", func(c *Config) { c.Agents[0].Weights = model.FactorWeights{} }, ".weights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg),
				"expected %q in error:\n%s", tt.wantMsg, err.Error())
		})
	}
}

func TestConfig_Agent(t *testing.T) {
	cfg := validConfig()

	profile := cfg.Agent("GROK_4")
	require.NotNil(t, profile)
	assert.Equal(t, model.RiskHigh, profile.Risk)
	assert.True(t, profile.FocusedOn("Crypto"))

	assert.Nil(t, cfg.Agent("NOBODY"))
}

func TestDefaultAgents(t *testing.T) {
	agents := DefaultAgents()
	require.Len(t, agents, 4)

	seen := make(map[string]bool)
	for _, a := range agents {
		assert.False(t, seen[a.ID], "Duplicate default agent %s", a.ID)
		seen[a.ID] = true
		assert.Positive(t, a.MaxTrades)
		assert.Positive(t, a.Weights.Sum())
	}

	assert.True(t, seen["GROK_4"])
	assert.True(t, seen["GPT_5"])
	assert.True(t, seen["CLAUDE_OPUS"])
	assert.True(t, seen["GEMINI_PRO"])
}
