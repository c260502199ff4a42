// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and ELOX_ env vars on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory video event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event id cache. Zero keeps every id.
	DedupeSize int `koanf:"dedupe_size"`

	// NameCacheSize and NameCacheTTLMS bound the display name cache.
	NameCacheSize  int `koanf:"name_cache_size"`
	NameCacheTTLMS int `koanf:"name_cache_ttl_ms"`

	// RateLimitRPS and RateLimitBurst configure the per-IP limiter on write routes.
	// A non-positive RPS disables limiting.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		EventQueueSize: 100_000,
		WorkerCount:    runtime.NumCPU() * 2,
		DedupeSize:     500_000,
		NameCacheSize:  10_000,
		NameCacheTTLMS: 60_000,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
	}
}

// NameCacheTTL returns the display name cache TTL as a duration.
func (c *Config) NameCacheTTL() time.Duration {
	return time.Duration(c.NameCacheTTLMS) * time.Millisecond
}

// Validate checks the values Load cannot reject on type alone.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.EventQueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.NameCacheSize <= 0:
		return fmt.Errorf("%w: name_cache_size must be positive", ErrInvalidConfig)
	case c.NameCacheTTLMS < 0:
		return fmt.Errorf("%w: name_cache_ttl_ms must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst <= 0:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}
	return nil
}
