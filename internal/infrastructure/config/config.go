package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// CacheConfig holds cache allocation configuration.
type CacheConfig struct {
	// GlobalSizeLimit is the byte budget shared by all renderers; 0 derives it
	// from physical memory.
	GlobalSizeLimit   uint64        `envconfig:"CACHE_GLOBAL_SIZE_LIMIT" default:"0"`
	InactiveThreshold time.Duration `envconfig:"CACHE_INACTIVE_THRESHOLD" default:"5m"`
	ReviseDelay       time.Duration `envconfig:"CACHE_REVISE_DELAY" default:"200ms"`
	// LowEndDevice is "auto", "true" or "false".
	LowEndDevice string `envconfig:"CACHE_LOW_END_DEVICE" default:"auto"`
	OutboxSize   int    `envconfig:"CACHE_OUTBOX_SIZE" default:"16"`
}

// LowEnd resolves LowEndDevice. ok is false for "auto", meaning the caller
// should probe the system.
func (c CacheConfig) LowEnd() (lowEnd bool, ok bool, err error) {
	if c.LowEndDevice == "" || c.LowEndDevice == "auto" {
		return false, false, nil
	}
	v, err := strconv.ParseBool(c.LowEndDevice)
	if err != nil {
		return false, false, fmt.Errorf("invalid CACHE_LOW_END_DEVICE %q: %w", c.LowEndDevice, err)
	}
	return v, true, nil
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if _, _, err := cfg.Cache.LowEnd(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "127.0.0.1",
		},
		Cache: CacheConfig{
			GlobalSizeLimit:   0,
			InactiveThreshold: 5 * time.Minute,
			ReviseDelay:       200 * time.Millisecond,
			LowEndDevice:      "auto",
			OutboxSize:        16,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
