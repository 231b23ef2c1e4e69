package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// DefaultConfig limits planning runs to 30 per hour per client with a
// burst of 5, and archive reads to 300 per minute. Health checks have
// no rule and pass untouched.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Rules: []Rule{
			{Method: "POST", Path: "/api/v1/plan", Limit: 30, Window: time.Hour, Burst: 5},
			{Method: "GET", Path: "/api/v1/plans", Limit: 300, Window: time.Minute, Burst: 30},
			{Method: "GET", Path: "/api/v1/plans/", Limit: 300, Window: time.Minute, Burst: 30},
		},
		SweepInterval: 5 * time.Minute,
		IdleTTL:       time.Hour,
	}
}

// LoadConfig builds the limiter config from RATE_LIMIT_* environment
// variables, starting from DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return cfg
	}

	planLimit := envInt("RATE_LIMIT_PLAN_LIMIT", 30)
	planWindow := envDuration("RATE_LIMIT_PLAN_WINDOW", time.Hour)
	planBurst := envInt("RATE_LIMIT_PLAN_BURST", 5)
	readLimit := envInt("RATE_LIMIT_READ_LIMIT", 300)
	readWindow := envDuration("RATE_LIMIT_READ_WINDOW", time.Minute)
	readBurst := envInt("RATE_LIMIT_READ_BURST", 30)

	cfg.Rules = []Rule{
		{Method: "POST", Path: "/api/v1/plan", Limit: planLimit, Window: planWindow, Burst: planBurst},
		{Method: "GET", Path: "/api/v1/plans", Limit: readLimit, Window: readWindow, Burst: readBurst},
		{Method: "GET", Path: "/api/v1/plans/", Limit: readLimit, Window: readWindow, Burst: readBurst},
	}
	cfg.SweepInterval = envDuration("RATE_LIMIT_SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.IdleTTL = envDuration("RATE_LIMIT_IDLE_TTL", cfg.IdleTTL)
	return cfg
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
