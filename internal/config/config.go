// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// DefaultAPIBaseURL is the API Ninjas v1 root the cats endpoint lives under.
const DefaultAPIBaseURL = "https://api.api-ninjas.com/v1"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the upstream root; requests go to {APIBaseURL}/cats.
	APIBaseURL string `koanf:"api_base_url"`

	// APIKey is sent as the X-Api-Key header.
	APIKey string `koanf:"api_key"`

	// APITimeoutMS bounds a single upstream request. Zero disables the timeout.
	APITimeoutMS int `koanf:"api_timeout_ms"`

	// APIMaxRetries is the number of extra attempts on transient failures.
	APIMaxRetries int `koanf:"api_max_retries"`

	// BreakerFailures is the number of consecutive failures that open the breaker.
	// Zero disables the breaker.
	BreakerFailures int `koanf:"breaker_failures"`

	// BreakerTimeoutMS is how long the breaker stays open before probing.
	BreakerTimeoutMS int `koanf:"breaker_timeout_ms"`

	// PageSize is the list pager step until the upstream's own page length
	// has been seen; after that the observed length is used.
	PageSize int `koanf:"page_size"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		APIBaseURL:       DefaultAPIBaseURL,
		APITimeoutMS:     10_000,
		APIMaxRetries:    0,
		BreakerFailures:  5,
		BreakerTimeoutMS: 30_000,
		PageSize:         20,
	}
}

// APITimeout returns APITimeoutMS as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// BreakerTimeout returns BreakerTimeoutMS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}
