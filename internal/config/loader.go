package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load builds the Config from the built-in defaults, the TOML file at path
// (skipped when path is empty or the file does not exist), a .env file in
// the working directory if present, and finally the environment. The result
// has NOT been validated; call Config.Validate after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing). Variables
	// already set in the environment win.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	return &cfg, nil
}

// applyEnvOverrides reads DEFIDASH_* variables, plus the conventional
// ONEINCH_API_KEY, PENDLE_API_KEY, OCTAV_API_KEY and PORT names, and
// overwrites the corresponding fields when a variable is set. The prefixed
// name wins when both are present.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "PORT")
	setInt(&cfg.Server.Port, "DEFIDASH_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "DEFIDASH_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "DEFIDASH_SERVER_API_KEY")
	setDuration(&cfg.Server.ReadTimeout, "DEFIDASH_SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "DEFIDASH_SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "DEFIDASH_SERVER_SHUTDOWN_TIMEOUT")
	setBool(&cfg.Server.Metrics, "DEFIDASH_SERVER_METRICS")

	// ── Chain ──
	setInt(&cfg.Chain.DefaultID, "DEFIDASH_CHAIN_DEFAULT_ID")
	setIntSlice(&cfg.Chain.Supported, "DEFIDASH_CHAIN_SUPPORTED")
	setBool(&cfg.Chain.AllowSameToken, "DEFIDASH_CHAIN_ALLOW_SAME_TOKEN")

	// ── 1inch ──
	setStr(&cfg.OneInch.APIKey, "ONEINCH_API_KEY")
	setStr(&cfg.OneInch.APIKey, "DEFIDASH_ONEINCH_API_KEY")
	setStr(&cfg.OneInch.BaseURL, "DEFIDASH_ONEINCH_BASE_URL")
	setDuration(&cfg.OneInch.Timeout, "DEFIDASH_ONEINCH_TIMEOUT")

	// ── Pendle ──
	setBool(&cfg.Pendle.Enabled, "DEFIDASH_PENDLE_ENABLED")
	setStr(&cfg.Pendle.APIKey, "PENDLE_API_KEY")
	setStr(&cfg.Pendle.APIKey, "DEFIDASH_PENDLE_API_KEY")
	setStr(&cfg.Pendle.BaseURL, "DEFIDASH_PENDLE_BASE_URL")
	setDuration(&cfg.Pendle.Timeout, "DEFIDASH_PENDLE_TIMEOUT")

	// ── Octav ──
	setStr(&cfg.Octav.APIKey, "OCTAV_API_KEY")
	setStr(&cfg.Octav.APIKey, "DEFIDASH_OCTAV_API_KEY")
	setStr(&cfg.Octav.BaseURL, "DEFIDASH_OCTAV_BASE_URL")
	setDuration(&cfg.Octav.Timeout, "DEFIDASH_OCTAV_TIMEOUT")

	// ── Rate limit ──
	setBool(&cfg.RateLimit.Enabled, "DEFIDASH_RATE_LIMIT_ENABLED")
	setStr(&cfg.RateLimit.Backend, "DEFIDASH_RATE_LIMIT_BACKEND")
	setInt(&cfg.RateLimit.Requests, "DEFIDASH_RATE_LIMIT_REQUESTS")
	setDuration(&cfg.RateLimit.Window, "DEFIDASH_RATE_LIMIT_WINDOW")
	setStr(&cfg.RateLimit.KeyPrefix, "DEFIDASH_RATE_LIMIT_KEY_PREFIX")
	setBool(&cfg.RateLimit.TrustProxy, "DEFIDASH_RATE_LIMIT_TRUST_PROXY")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "DEFIDASH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "DEFIDASH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "DEFIDASH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "DEFIDASH_REDIS_POOL_SIZE")
	setBool(&cfg.Redis.TLSEnabled, "DEFIDASH_REDIS_TLS_ENABLED")

	// ── Log ──
	setStr(&cfg.Log.Level, "DEFIDASH_LOG_LEVEL")
	setBool(&cfg.Log.Development, "DEFIDASH_LOG_DEVELOPMENT")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and parses.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		if cleaned := splitList(v); len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

func setIntSlice(dst *[]int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := splitList(v)
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return
		}
		ids = append(ids, n)
	}
	if len(ids) > 0 {
		*dst = ids
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
