package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls the limiter. Exempt clients bypass every rule; Deny
// clients are refused outright. Requests not covered by any rule fall
// back to DefaultLimit per DefaultWindow.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
	Exempt        map[string]bool
	Deny          map[string]bool
}

// IntakeRules returns the limits for the intake service's routes.
func IntakeRules() []Rule {
	return []Rule{
		// Liveness checks come from orchestrators and must never be refused.
		{Path: "/health", Method: "GET", Limit: 0},

		// Each submission fans out to storage, extraction, and a model call.
		{Path: "/api/applications/submit", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Record lookups and CV downloads are cheap reads.
		{Path: "/api/applications/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/files/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
	}
}

// FromEnv builds the limiter configuration from RATE_LIMIT_* variables,
// with the intake route rules baked in.
func FromEnv() Config {
	return Config{
		Enabled:       envBool("RATE_LIMIT_ENABLED", true),
		DefaultLimit:  envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow: envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		Rules:         IntakeRules(),
		Exempt:        clientSet(os.Getenv("RATE_LIMIT_EXEMPT")),
		Deny:          clientSet(os.Getenv("RATE_LIMIT_DENY")),
	}
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// clientSet parses a comma-separated list of client IPs.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
