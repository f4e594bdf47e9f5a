// Package server assembles the HTTP API: routes, middleware chain and the
// listener lifecycle.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/defidash/internal/domain"
	"github.com/alanyoungcy/defidash/internal/metrics"
	"github.com/alanyoungcy/defidash/internal/server/handler"
	"github.com/alanyoungcy/defidash/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port         int
	CORSOrigins  []string
	APIKey       string // if empty, authentication is disabled
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Metrics      bool

	// RateLimiter, when non-nil, limits each client IP to RateLimit
	// requests per RateWindow. TrustProxy keys clients on X-Forwarded-For
	// instead of the remote address.
	RateLimiter domain.RateLimiter
	RateLimit   int
	RateWindow  time.Duration
	TrustProxy  bool
}

// Handlers aggregates all HTTP handlers that the server registers.
type Handlers struct {
	Health    *handler.HealthHandler
	Swap      *handler.SwapHandler
	Liquidity *handler.LiquidityHandler
	Portfolio *handler.PortfolioHandler
	Strategy  *handler.StrategyHandler
}

// Server is the headless HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain applied. From the outside in: CORS, request logging, panic
// recovery, authentication, rate limiting and metrics.
func NewServer(cfg Config, handlers Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	mux.HandleFunc("GET /api/approve", handlers.Swap.GetAllowance)
	mux.HandleFunc("POST /api/approve", handlers.Swap.BuildApprove)
	mux.HandleFunc("GET /api/quote", handlers.Swap.GetQuote)
	mux.HandleFunc("POST /api/swap", handlers.Swap.BuildSwap)

	mux.HandleFunc("POST /api/liquidity", handlers.Liquidity.Build)

	mux.HandleFunc("GET /api/octav-portfolio", handlers.Portfolio.GetPortfolio)

	mux.HandleFunc("POST /api/strategy/recommend", handlers.Strategy.Recommend)

	if cfg.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	mux.HandleFunc("/", notFound)

	var h http.Handler = mux
	if cfg.Metrics {
		h = metrics.InstrumentHandler(h)
	}
	if cfg.RateLimiter != nil {
		h = middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit, cfg.RateWindow, cfg.TrustProxy, logger)(h)
	}
	h = middleware.Auth(cfg.APIKey, "/api/health", "/metrics")(h)
	h = middleware.Recover(logger)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Handler returns the fully wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
	})
}
