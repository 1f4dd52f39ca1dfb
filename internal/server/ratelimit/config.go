package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads RATE_LIMIT_* variables. Unparseable values fall back to
// the defaults.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       ipSet(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Expensive operations (file parsing, scoring, LLM calls)
		{Path: "/api/ats/upload", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/questions/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Tier 2: Credential and anonymous submission endpoints (brute-force and spam protection)
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: 15 * time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/api/password/", Method: "POST", Limit: 5, Window: 15 * time.Minute, Burst: 3},
		{Path: "/api/interviews", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},

		// Tier 3: Write operations
		{Path: "/api/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/auth/profile", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resume/score/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resume", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resume/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resume/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/questions/answers", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},

		// Reads use the default limit; /health is unlimited (see MatchEndpoint)
	}
}

func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ipSet turns "1.2.3.4, 5.6.7.8" into a lookup set.
func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
