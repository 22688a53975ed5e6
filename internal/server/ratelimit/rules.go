package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method on one path. A path ending in "/" matches every path
// below it.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window
	Window time.Duration // refill period
	Burst  int           // bucket capacity, Limit when zero
}

func (r Rule) key() string {
	return r.Method + " " + r.Path
}

func (r Rule) isPrefix() bool {
	return strings.HasSuffix(r.Path, "/")
}

// DefaultRules are applied when RATE_LIMIT_RULES does not override them.
func DefaultRules() []Rule {
	return []Rule{
		// Credential endpoints are strict to slow down guessing.
		{Method: "POST", Path: "/api/auth/login", Limit: 20, Window: time.Minute, Burst: 5},
		{Method: "POST", Path: "/api/auth/register", Limit: 10, Window: time.Minute, Burst: 3},
		{Method: "POST", Path: "/api/auth/google-login", Limit: 20, Window: time.Minute, Burst: 5},

		// Reads below /api/resume/ include rendering.
		{Method: "GET", Path: "/api/resume/", Limit: 300, Window: time.Minute, Burst: 60},

		{Method: "POST", Path: "/api/resume", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "PUT", Path: "/api/resume/", Limit: 120, Window: time.Minute, Burst: 20},
		{Method: "DELETE", Path: "/api/resume/", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// Match returns the rule for a request, or nil when none applies. Exact rules
// win over prefix rules. GET /health always matches an unlimited rule.
func Match(rules []Rule, method, path string) *Rule {
	if method == "GET" && path == "/health" {
		return &Rule{Method: method, Path: path}
	}

	var prefix *Rule
	for i := range rules {
		r := &rules[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if prefix == nil && r.isPrefix() && strings.HasPrefix(path, r.Path) {
			prefix = r
		}
	}
	return prefix
}

// ParseRules reads rules in the form "METHOD PATH=LIMIT/WINDOW[:BURST]",
// separated by semicolons, e.g. "POST /api/auth/login=10/1m:3".
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rule, err := parseRule(entry)
		if err != nil {
			return nil, fmt.Errorf("rate limit rule %q: %w", entry, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRule(entry string) (Rule, error) {
	target, limits, ok := strings.Cut(entry, "=")
	if !ok {
		return Rule{}, fmt.Errorf("missing '='")
	}
	method, path, ok := strings.Cut(strings.TrimSpace(target), " ")
	path = strings.TrimSpace(path)
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return Rule{}, fmt.Errorf("target must be METHOD /path")
	}

	rate, burst, hasBurst := strings.Cut(strings.TrimSpace(limits), ":")
	count, window, ok := strings.Cut(rate, "/")
	if !ok {
		return Rule{}, fmt.Errorf("limit must be COUNT/WINDOW")
	}

	rule := Rule{Method: strings.ToUpper(method), Path: path}
	var err error
	if rule.Limit, err = strconv.Atoi(count); err != nil || rule.Limit < 0 {
		return Rule{}, fmt.Errorf("invalid count %q", count)
	}
	if rule.Window, err = time.ParseDuration(window); err != nil || rule.Window <= 0 {
		return Rule{}, fmt.Errorf("invalid window %q", window)
	}
	if hasBurst {
		if rule.Burst, err = strconv.Atoi(burst); err != nil || rule.Burst < 0 {
			return Rule{}, fmt.Errorf("invalid burst %q", burst)
		}
	}
	return rule, nil
}

// mergeRules replaces base rules that share a method and path with an
// override and appends the rest.
func mergeRules(base, overrides []Rule) []Rule {
	merged := append([]Rule(nil), base...)
	for _, o := range overrides {
		replaced := false
		for i := range merged {
			if merged[i].key() == o.key() {
				merged[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged
}
