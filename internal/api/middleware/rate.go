package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is charged against.
type KeyFunc func(c *gin.Context) string

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// Key defaults to ClientKey.
	Key KeyFunc
	// IdleTTL is how long an unused bucket is kept before it is swept.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the rate limit used by the admin server.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		Key:               ClientKey,
		IdleTTL:           10 * time.Minute,
	}
}

// ClientKey charges requests to the caller's IP.
func ClientKey(c *gin.Context) string {
	return c.ClientIP()
}

// ProcessKey charges renderer bridge requests to the :pid route parameter so a
// chatty renderer cannot exhaust the budget of the others. Routes without a pid
// fall back to the client IP.
func ProcessKey(c *gin.Context) string {
	if pid := c.Param("pid"); pid != "" {
		return "pid:" + pid
	}
	return ClientKey(c)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit creates a keyed token bucket middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	key := cfg.Key
	if key == nil {
		key = ClientKey
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep time.Time
	)

	return func(c *gin.Context) {
		k := key(c)
		now := time.Now()

		mu.Lock()
		b, exists := buckets[k]
		if !exists {
			b = &bucket{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			buckets[k] = b
		}
		b.lastSeen = now
		if now.Sub(lastSweep) >= ttl {
			for id, other := range buckets {
				if now.Sub(other.lastSeen) >= ttl {
					delete(buckets, id)
				}
			}
			lastSweep = now
		}
		limiter := b.limiter
		mu.Unlock()

		if !limiter.Allow() {
			tooMany(c)
			return
		}

		c.Next()
	}
}

func tooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"error":   "rate limit exceeded",
	})
}
