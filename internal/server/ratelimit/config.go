package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept. Defaults to one hour.
	IdleTTL         time.Duration
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Rules           []Rule
}

// LoadConfig reads RATE_LIMIT_* environment variables. Malformed values fall
// back to their defaults with a warning.
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	env := envReader{getenv: getenv}
	if !env.boolOr("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	rules := DefaultRules()
	if raw := getenv("RATE_LIMIT_RULES"); raw != "" {
		overrides, err := ParseRules(raw)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring RATE_LIMIT_RULES")
		} else {
			rules = mergeRules(rules, overrides)
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.intOr("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.durationOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.durationOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         env.durationOr("RATE_LIMIT_IDLE_TTL", time.Hour),
		Allowlist:       clientSet(getenv("RATE_LIMIT_ALLOWLIST")),
		Denylist:        clientSet(getenv("RATE_LIMIT_DENYLIST")),
		Rules:           rules,
	}
}

type envReader struct {
	getenv func(string) string
}

func (e envReader) intOr(key string, def int) int {
	raw := e.getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return def
	}
	return v
}

func (e envReader) boolOr(key string, def bool) bool {
	raw := e.getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return def
	}
	return v
}

func (e envReader) durationOr(key string, def time.Duration) time.Duration {
	raw := e.getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return def
	}
	return v
}

// clientSet parses a comma-separated list of client addresses.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = true
		}
	}
	return set
}
