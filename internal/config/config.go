package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/predictdesk/predictdesk/internal/model"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig            `mapstructure:"app"`
	AI         AIConfig             `mapstructure:"ai"`
	Redis      RedisConfig          `mapstructure:"redis"`
	Engine     EngineConfig         `mapstructure:"engine"`
	Monitoring MonitoringConfig     `mapstructure:"monitoring"`
	Agents     []model.AgentProfile `mapstructure:"agents"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // "json" or "console"
}

// AIConfig contains AI vendor gateway settings
type AIConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	Endpoint          string  `mapstructure:"endpoint"`
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
	CacheTTL          int     `mapstructure:"cache_ttl"` // seconds, AI response micro-cache
}

// GetTimeout returns the AI call timeout as time.Duration
func (c *AIConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// GetCacheTTL returns the AI response cache TTL as time.Duration
func (c *AIConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RedisConfig contains optional Redis settings for the AI response cache.
// When disabled the cache falls back to an in-process map.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GetRedisAddr returns the Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineConfig contains decision pipeline settings
type EngineConfig struct {
	CacheTTL       int `mapstructure:"cache_ttl"`       // seconds, trade cache validity
	ShuffleWindow  int `mapstructure:"shuffle_window"`  // milliseconds, rotation bucket size
	TradeThreshold int `mapstructure:"trade_threshold"` // minimum score to attempt a trade
	CycleInterval  int `mapstructure:"cycle_interval"`  // seconds between daemon cycles
}

// GetCacheTTL returns the trade cache TTL as time.Duration
func (c *EngineConfig) GetCacheTTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// GetShuffleWindow returns the rotation bucket size as time.Duration
func (c *EngineConfig) GetShuffleWindow() time.Duration {
	return time.Duration(c.ShuffleWindow) * time.Millisecond
}

// GetCycleInterval returns the daemon cycle interval as time.Duration
func (c *EngineConfig) GetCycleInterval() time.Duration {
	return time.Duration(c.CycleInterval) * time.Second
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("PREDICTDESK")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Agents) == 0 {
		cfg.Agents = DefaultAgents()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "PredictDesk")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.endpoint", "http://localhost:8080/v1/chat/completions")
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 1000)
	v.SetDefault("ai.timeout", 30000)
	v.SetDefault("ai.requests_per_minute", 60)
	v.SetDefault("ai.cache_ttl", 60)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Engine defaults
	v.SetDefault("engine.cache_ttl", 120)
	v.SetDefault("engine.shuffle_window", 5000)
	v.SetDefault("engine.trade_threshold", 10)
	v.SetDefault("engine.cycle_interval", 60)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
}

// Agent returns the profile with the given id, or nil if not configured.
func (c *Config) Agent(agentID string) *model.AgentProfile {
	for i := range c.Agents {
		if c.Agents[i].ID == agentID {
			return &c.Agents[i]
		}
	}
	return nil
}

// DefaultAgents returns the built-in agent roster used when the config file
// declares none.
func DefaultAgents() []model.AgentProfile {
	return []model.AgentProfile{
		{
			ID:              "GROK_4",
			DisplayName:     "Grok 4",
			MinVolume:       50000,
			MinLiquidity:    10000,
			MaxTrades:       3,
			Risk:            model.RiskHigh,
			FocusCategories: []string{"Crypto", "Tech"},
			Weights: model.FactorWeights{
				Volume: 0.8, Liquidity: 0.6, PriceMovement: 1.4, News: 1.2, Probability: 1.0,
			},
		},
		{
			ID:              "GPT_5",
			DisplayName:     "GPT-5",
			MinVolume:       100000,
			MinLiquidity:    25000,
			MaxTrades:       2,
			Risk:            model.RiskMedium,
			FocusCategories: []string{"Politics", "World"},
			Weights: model.FactorWeights{
				Volume: 1.2, Liquidity: 1.0, PriceMovement: 0.8, News: 1.4, Probability: 0.6,
			},
		},
		{
			ID:              "CLAUDE_OPUS",
			DisplayName:     "Claude Opus",
			MinVolume:       75000,
			MinLiquidity:    20000,
			MaxTrades:       2,
			Risk:            model.RiskLow,
			FocusCategories: []string{"Science", "World"},
			Weights: model.FactorWeights{
				Volume: 1.0, Liquidity: 1.2, PriceMovement: 0.6, News: 1.0, Probability: 1.2,
			},
		},
		{
			ID:              "GEMINI_PRO",
			DisplayName:     "Gemini Pro",
			MinVolume:       50000,
			MinLiquidity:    15000,
			MaxTrades:       3,
			Risk:            model.RiskMedium,
			FocusCategories: []string{"Sports", "Entertainment"},
			Weights: model.FactorWeights{
				Volume: 1.0, Liquidity: 0.8, PriceMovement: 1.0, News: 1.2, Probability: 1.0,
			},
		},
	}
}
