package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/defidash/internal/cache/memory"
	"github.com/alanyoungcy/defidash/internal/cache/redis"
	"github.com/alanyoungcy/defidash/internal/config"
	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/normalize"
	"github.com/alanyoungcy/defidash/internal/platform/octav"
	"github.com/alanyoungcy/defidash/internal/platform/oneinch"
	"github.com/alanyoungcy/defidash/internal/platform/pendle"
	"github.com/alanyoungcy/defidash/internal/server"
	"github.com/alanyoungcy/defidash/internal/server/handler"
	"github.com/alanyoungcy/defidash/internal/service"
)

// Dependencies bundles everything the HTTP server needs. It is constructed
// by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Normalizer *normalize.Normalizer

	// Collaborators; nil when the integration is not configured.
	Aggregator domain.SwapAggregator
	Liquidity  domain.LiquidityBuilder
	Portfolio  domain.PortfolioSource

	// MemoryLimiter is set when the in-process backend is selected so the
	// app can run its cleanup loop.
	RateLimiter   domain.RateLimiter
	MemoryLimiter *memory.RateLimiter

	Server *server.Server
}

// Wire constructs all concrete dependencies from cfg and returns them
// together with a cleanup function to call on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Normalizer: normalize.New(normalize.Options{
			DefaultChainID:  cfg.Chain.DefaultID,
			SupportedChains: cfg.Chain.Supported,
			AllowSameToken:  cfg.Chain.AllowSameToken,
		}),
	}

	// --- External collaborators ---
	if cfg.OneInch.APIKey != "" {
		deps.Aggregator = oneinch.NewClient(oneinch.Config{
			BaseURL: cfg.OneInch.BaseURL,
			APIKey:  cfg.OneInch.APIKey,
			Timeout: cfg.OneInch.Timeout.Duration,
		})
	} else {
		logger.WarnContext(ctx, "wire: ONEINCH_API_KEY not set, swap routes will answer 503")
	}
	if cfg.Pendle.Enabled {
		deps.Liquidity = pendle.NewClient(pendle.Config{
			BaseURL: cfg.Pendle.BaseURL,
			APIKey:  cfg.Pendle.APIKey,
			Timeout: cfg.Pendle.Timeout.Duration,
		})
	}
	if cfg.Octav.APIKey != "" {
		deps.Portfolio = octav.NewClient(octav.Config{
			BaseURL: cfg.Octav.BaseURL,
			APIKey:  cfg.Octav.APIKey,
			Timeout: cfg.Octav.Timeout.Duration,
		})
	} else {
		logger.WarnContext(ctx, "wire: OCTAV_API_KEY not set, portfolio route will serve empty portfolios")
	}

	// --- Rate limiting ---
	if cfg.RateLimit.Enabled {
		switch strings.ToLower(cfg.RateLimit.Backend) {
		case "redis":
			redisClient, err := redis.New(ctx, redis.ClientConfig{
				Addr:       cfg.Redis.Addr,
				Password:   cfg.Redis.Password,
				DB:         cfg.Redis.DB,
				PoolSize:   cfg.Redis.PoolSize,
				TLSEnabled: cfg.Redis.TLSEnabled,
			})
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: redis: %w", err)
			}
			closers = append(closers, func() { _ = redisClient.Close() })
			deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.RateLimit.KeyPrefix)
		default:
			deps.MemoryLimiter = memory.NewRateLimiter(2 * cfg.RateLimit.Window.Duration)
			deps.RateLimiter = deps.MemoryLimiter
		}
	}

	// --- Services and handlers ---
	swaps := service.NewSwapService(deps.Normalizer, deps.Aggregator, logger.With(slog.String("component", "swap_service")))
	liquidity := service.NewLiquidityService(deps.Normalizer, deps.Liquidity, logger.With(slog.String("component", "liquidity_service")))
	portfolios := service.NewPortfolioService(deps.Normalizer, deps.Portfolio, logger.With(slog.String("component", "portfolio_service")))
	strategies := service.NewStrategyService(deps.Normalizer, logger.With(slog.String("component", "strategy_service")))

	handlers := server.Handlers{
		Health: handler.NewHealthHandler(handler.Integrations{
			OneInch: swaps.Configured(),
			Pendle:  deps.Liquidity != nil,
			Octav:   portfolios.Configured(),
		}, deps.Normalizer.SupportedChains(), logger),
		Swap:      handler.NewSwapHandler(swaps, logger),
		Liquidity: handler.NewLiquidityHandler(liquidity, logger),
		Portfolio: handler.NewPortfolioHandler(portfolios, logger),
		Strategy:  handler.NewStrategyHandler(strategies, logger),
	}

	deps.Server = server.NewServer(server.Config{
		Port:         cfg.Server.Port,
		CORSOrigins:  cfg.Server.CORSOrigins,
		APIKey:       cfg.Server.APIKey,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		Metrics:      cfg.Server.Metrics,
		RateLimiter:  deps.RateLimiter,
		RateLimit:    cfg.RateLimit.Requests,
		RateWindow:   cfg.RateLimit.Window.Duration,
		TrustProxy:   cfg.RateLimit.TrustProxy,
	}, handlers, logger.With(slog.String("component", "server")))

	return deps, cleanup, nil
}
