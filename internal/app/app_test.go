package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/defidash/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWireWithoutCredentials(t *testing.T) {
	cfg := config.Defaults()

	deps, cleanup, err := Wire(context.Background(), &cfg, discard())
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, deps.Aggregator)
	assert.Nil(t, deps.Portfolio)
	assert.NotNil(t, deps.Liquidity)
	require.NotNil(t, deps.MemoryLimiter)
	assert.Equal(t, []int{1, 10, 56, 100, 137, 8453, 42161, 43114}, deps.Normalizer.SupportedChains())

	rec := httptest.NewRecorder()
	deps.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"oneinch":false`)
	assert.Contains(t, rec.Body.String(), `"pendle":true`)
}

func TestWireWithCredentials(t *testing.T) {
	cfg := config.Defaults()
	cfg.OneInch.APIKey = "k1"
	cfg.Octav.APIKey = "k2"
	cfg.RateLimit.Enabled = false

	deps, cleanup, err := Wire(context.Background(), &cfg, discard())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, deps.Aggregator)
	assert.NotNil(t, deps.Portfolio)
	assert.Nil(t, deps.RateLimiter)
}

func TestWireRedisUnavailable(t *testing.T) {
	cfg := config.Defaults()
	cfg.RateLimit.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := Wire(ctx, &cfg, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wire: redis")
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.Port = 0

	a := New(&cfg, discard())
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
