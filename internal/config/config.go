// Package config defines the configuration of the dashboard backend and
// provides validation helpers.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from an
// optional TOML file and then overridden by DEFIDASH_* environment variables.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Chain     ChainConfig     `toml:"chain"`
	OneInch   OneInchConfig   `toml:"oneinch"`
	Pendle    PendleConfig    `toml:"pendle"`
	Octav     OctavConfig     `toml:"octav"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Redis     RedisConfig     `toml:"redis"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int      `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	APIKey          string   `toml:"api_key"` // empty disables authentication
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
	Metrics         bool     `toml:"metrics"`
}

// ChainConfig controls which EVM chains requests may target.
type ChainConfig struct {
	DefaultID      int   `toml:"default_id"`
	Supported      []int `toml:"supported"`
	AllowSameToken bool  `toml:"allow_same_token"`
}

// OneInchConfig configures the swap aggregator. An empty APIKey disables the
// swap, quote and approval routes (they answer 503).
type OneInchConfig struct {
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout duration `toml:"timeout"`
}

// PendleConfig configures the yield protocol. The hosted SDK works without a
// key.
type PendleConfig struct {
	Enabled bool     `toml:"enabled"`
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout duration `toml:"timeout"`
}

// OctavConfig configures the portfolio aggregator. An empty APIKey makes the
// portfolio route serve an empty portfolio.
type OctavConfig struct {
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout duration `toml:"timeout"`
}

// RateLimitConfig configures per-client request limiting. Backend is
// "memory" or "redis".
type RateLimitConfig struct {
	Enabled   bool     `toml:"enabled"`
	Backend   string   `toml:"backend"`
	Requests  int      `toml:"requests"`
	Window    duration `toml:"window"`
	KeyPrefix string   `toml:"key_prefix"`
	// TrustProxy keys clients on X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that overwrites those headers.
	TrustProxy bool `toml:"trust_proxy"`
}

// RedisConfig holds Redis connection parameters, used by the redis rate
// limit backend.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// LogConfig selects the log level and output format. Development switches
// to human-readable text at debug level.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// SlogLevel maps Level onto a slog.Level, ignoring case. Unknown values fall
// back to info; Validate reports them.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so that BurntSushi/toml
// can parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with sensible defaults. A TOML file and
// environment variables are layered on top.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     duration{15 * time.Second},
			WriteTimeout:    duration{45 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
			Metrics:         true,
		},
		Chain: ChainConfig{
			DefaultID: 1,
			Supported: []int{1, 10, 56, 100, 137, 8453, 42161, 43114},
		},
		OneInch: OneInchConfig{
			BaseURL: "https://api.1inch.dev/swap/v6.0",
			Timeout: duration{15 * time.Second},
		},
		Pendle: PendleConfig{
			Enabled: true,
			BaseURL: "https://api-v2.pendle.finance/core",
			Timeout: duration{20 * time.Second},
		},
		Octav: OctavConfig{
			BaseURL: "https://api.octav.fi",
			Timeout: duration{30 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			Backend:   "memory",
			Requests:  120,
			Window:    duration{time.Minute},
			KeyPrefix: "defidash:",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks Config for invalid values and returns one error listing
// every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, "server: shutdown_timeout must be positive")
	}

	if c.Chain.DefaultID <= 0 {
		errs = append(errs, "chain: default_id must be positive")
	}
	if len(c.Chain.Supported) > 0 && !containsInt(c.Chain.Supported, c.Chain.DefaultID) {
		errs = append(errs, fmt.Sprintf("chain: default_id %d is not in supported %v", c.Chain.DefaultID, c.Chain.Supported))
	}

	checkURL := func(section, raw string) {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s: base_url %q must be an absolute http(s) URL", section, raw))
		}
	}
	checkURL("oneinch", c.OneInch.BaseURL)
	if c.Pendle.Enabled {
		checkURL("pendle", c.Pendle.BaseURL)
	}
	checkURL("octav", c.Octav.BaseURL)

	if c.RateLimit.Enabled {
		switch strings.ToLower(c.RateLimit.Backend) {
		case "memory":
		case "redis":
			if c.Redis.Addr == "" {
				errs = append(errs, "redis: addr must not be empty when rate_limit.backend is redis")
			}
		default:
			errs = append(errs, fmt.Sprintf("rate_limit: unknown backend %q (valid: memory, redis)", c.RateLimit.Backend))
		}
		if c.RateLimit.Requests <= 0 {
			errs = append(errs, "rate_limit: requests must be positive")
		}
		if c.RateLimit.Window.Duration <= 0 {
			errs = append(errs, "rate_limit: window must be positive")
		}
	}

	if !validLogLevels[strings.ToLower(strings.TrimSpace(c.Log.Level))] {
		errs = append(errs, fmt.Sprintf("log: unknown level %q (valid: debug, info, warn, error)", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
