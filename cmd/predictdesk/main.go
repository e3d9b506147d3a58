package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/predictdesk/predictdesk/internal/ai"
	"github.com/predictdesk/predictdesk/internal/config"
	"github.com/predictdesk/predictdesk/internal/decision"
	"github.com/predictdesk/predictdesk/internal/personality"
	"github.com/predictdesk/predictdesk/internal/trades"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	once := flag.Bool("once", false, "Run a single generation cycle and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	config.InitLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	log.Info().
		Str("name", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Int("agents", len(cfg.Agents)).
		Bool("ai_enabled", cfg.AI.Enabled).
		Msg("Starting PredictDesk")

	service := buildService(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCycle(ctx, cfg, service)
	if *once {
		return
	}

	ticker := time.NewTicker(cfg.Engine.GetCycleInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return
		case <-ticker.C:
			runCycle(ctx, cfg, service)
		}
	}
}

// buildService wires feeds, AI, decision engine and cache into the trade
// service.
func buildService(cfg *config.Config) *trades.Service {
	var decider ai.Decider
	if cfg.AI.Enabled {
		client := ai.NewClient(ai.ClientConfig{
			Endpoint:          cfg.AI.Endpoint,
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			Temperature:       cfg.AI.Temperature,
			MaxTokens:         cfg.AI.MaxTokens,
			Timeout:           cfg.AI.GetTimeout(),
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
		})

		var cache ai.ResponseCache
		if cfg.Redis.Enabled {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.GetRedisAddr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			cache = ai.NewRedisCache(rdb, cfg.AI.GetCacheTTL())
			log.Info().Str("addr", cfg.Redis.GetRedisAddr()).Msg("AI response cache backed by Redis")
		} else {
			cache = ai.NewMemoryCache(cfg.AI.GetCacheTTL())
		}

		decider = ai.NewCachedDecider(client, cache)
	} else {
		log.Info().Msg("AI decisions disabled, running deterministic fallback only")
	}

	engine := decision.NewEngine(
		decider,
		personality.DefaultRegistry(),
		float64(cfg.Engine.TradeThreshold),
		cfg.Engine.GetShuffleWindow(),
	)

	return trades.NewService(
		cfg.Agents,
		fixtureMarkets(),
		fixtureNews(),
		engine,
		trades.NewCache(cfg.Engine.GetCacheTTL()),
	)
}

// runCycle generates trades for every configured agent and logs a summary.
func runCycle(ctx context.Context, cfg *config.Config, service *trades.Service) {
	for _, agent := range cfg.Agents {
		if ctx.Err() != nil {
			return
		}

		agentTrades := service.GenerateAgentTrades(ctx, agent.ID)
		research := service.GetAgentResearch(agent.ID)

		logger := config.NewAgentLogger(agent.ID)
		logger.Info().
			Int("trades", len(agentTrades)).
			Int("research", len(research)).
			Msg("Cycle complete")

		for _, t := range agentTrades {
			logger.Info().
				Str("market", t.MarketQuestion).
				Str("side", string(t.Side)).
				Float64("confidence", t.Confidence).
				Float64("investment_usd", t.InvestmentUSD).
				Str("summary", t.SummaryDecision).
				Msg("Open position")
		}
	}
}
