package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EndpointConfig is the rate limit rule for one method and path pattern.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // maximum requests per window
	Window time.Duration // time window
	Burst  int           // burst capacity (defaults to Limit if 0)
}

func (e *EndpointConfig) key() string {
	if e.Path == "" {
		return "default"
	}
	return e.Method + " " + e.Path
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("RATE_LIMIT")
	v.AutomaticEnv()
	v.SetDefault("enabled", true)
	v.SetDefault("default_limit", 600)
	v.SetDefault("default_window", time.Minute)
	v.SetDefault("cleanup_interval", 5*time.Minute)
	v.SetDefault("whitelist", "")
	v.SetDefault("blacklist", "")

	if !v.GetBool("enabled") {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("default_limit"),
		DefaultWindow:   v.GetDuration("default_window"),
		CleanupInterval: v.GetDuration("cleanup_interval"),
		Whitelist:       parseIPList(v.GetString("whitelist")),
		Blacklist:       parseIPList(v.GetString("blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific rules. Reads not listed
// here fall back to the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Writes
		{Path: "/submissions", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/lead", Method: "POST", Limit: 5, Window: time.Hour, Burst: 2},
		{Path: "/profiles/me", Method: "PATCH", Limit: 30, Window: time.Minute, Burst: 5},

		// Aggregations scan every submission of a company or profile
		{Path: "/stats/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/submissions/stats", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
