// Package middleware provides the HTTP middleware of the cache manager's admin API.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Keyed token bucket rate limiting with idle bucket sweeping
//   - RequestLogger: zap request logging
//
// Rate Limiting:
//   - ClientKey buckets by caller IP
//   - ProcessKey buckets renderer bridge routes by pid
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
