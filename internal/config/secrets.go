package config

// RedactedConfig returns a copy of cfg with credentials replaced by "***".
// Use it when logging the active configuration.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.Server.APIKey)
	redact(&out.OneInch.APIKey)
	redact(&out.Pendle.APIKey)
	redact(&out.Octav.APIKey)
	redact(&out.Redis.Password)

	// Copy slices so callers cannot mutate the original through the
	// redacted copy.
	if cfg.Server.CORSOrigins != nil {
		out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	}
	if cfg.Chain.Supported != nil {
		out.Chain.Supported = append([]int(nil), cfg.Chain.Supported...)
	}
	return out
}

const redacted = "***"

func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
