// Package config provides 12-factor configuration management for the cache manager.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: Admin HTTP server settings (port, host)
//   - Cache: Global budget, inactivity threshold, revise delay, low-end mode
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Revising every %s\n", cfg.Cache.ReviseDelay)
//
// Environment Variables:
//   - PORT, HOST
//   - CACHE_GLOBAL_SIZE_LIMIT, CACHE_INACTIVE_THRESHOLD, CACHE_REVISE_DELAY
//   - CACHE_LOW_END_DEVICE, CACHE_OUTBOX_SIZE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
