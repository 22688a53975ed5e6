package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	rules, err := ParseRules("post /api/auth/login=10/1m:3; GET /api/resume/=100/30s ;")

	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, Rule{Method: "POST", Path: "/api/auth/login", Limit: 10, Window: time.Minute, Burst: 3}, rules[0])
	assert.Equal(t, Rule{Method: "GET", Path: "/api/resume/", Limit: 100, Window: 30 * time.Second}, rules[1])
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing equals", input: "POST /login"},
		{name: "missing path", input: "POST=1/1m"},
		{name: "relative path", input: "POST login=1/1m"},
		{name: "missing window", input: "POST /login=10"},
		{name: "bad count", input: "POST /login=ten/1m"},
		{name: "negative count", input: "POST /login=-1/1m"},
		{name: "bad window", input: "POST /login=10/soon"},
		{name: "zero window", input: "POST /login=10/0s"},
		{name: "bad burst", input: "POST /login=10/1m:many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestMergeRules(t *testing.T) {
	base := []Rule{
		{Method: "POST", Path: "/a", Limit: 1, Window: time.Minute},
		{Method: "GET", Path: "/b/", Limit: 2, Window: time.Minute},
	}
	overrides := []Rule{
		{Method: "POST", Path: "/a", Limit: 9, Window: time.Second},
		{Method: "PUT", Path: "/c", Limit: 3, Window: time.Minute},
	}

	merged := mergeRules(base, overrides)

	require.Len(t, merged, 3)
	assert.Equal(t, 9, merged[0].Limit)
	assert.Equal(t, 2, merged[1].Limit)
	assert.Equal(t, "/c", merged[2].Path)
	assert.Equal(t, 1, base[0].Limit, "base is not modified")
}

func TestMatch_ExactBeatsPrefix(t *testing.T) {
	rules := []Rule{
		{Method: "GET", Path: "/api/resume/", Limit: 1, Window: time.Minute},
		{Method: "GET", Path: "/api/resume/export", Limit: 2, Window: time.Minute},
	}

	got := Match(rules, "GET", "/api/resume/export")

	require.NotNil(t, got)
	assert.Equal(t, 2, got.Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "50",
		"RATE_LIMIT_DEFAULT_WINDOW": "not-a-duration",
		"RATE_LIMIT_ALLOWLIST":      " 10.0.0.1 ,,10.0.0.2",
		"RATE_LIMIT_RULES":          "POST /api/auth/login=2/1m",
	}

	cfg := loadConfig(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, time.Hour, cfg.IdleTTL)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Allowlist)
	assert.Empty(t, cfg.Denylist)
	login := Match(cfg.Rules, "POST", "/api/auth/login")
	require.NotNil(t, login)
	assert.Equal(t, 2, login.Limit)
	assert.Len(t, cfg.Rules, len(DefaultRules()))
}

func TestLoadConfig_Disabled(t *testing.T) {
	cfg := loadConfig(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})

	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_BadRulesKeepDefaults(t *testing.T) {
	cfg := loadConfig(func(k string) string {
		if k == "RATE_LIMIT_RULES" {
			return "nonsense"
		}
		return ""
	})

	assert.Equal(t, DefaultRules(), cfg.Rules)
}
