package middleware

import (
	"crypto/subtle"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the per-key map; past it the map is reset.
const maxLimiters = 10000

// RateLimiter hands out one token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter allows rps requests per second per key with the given burst.
// A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	if rl == nil || rl.rate <= 0 {
		return true
	}
	return rl.limiter(key).Allow()
}

// PerIP limits requests by client address.
func (rl *RateLimiter) PerIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			abort(c, http.StatusTooManyRequests, "Too many requests, please try again later.")
			return
		}
		c.Next()
	}
}

// APIKey admits requests carrying one of keys in the x-api-key header or the
// apiKey query parameter, each key limited separately by rl.
func APIKey(keys []string, rl *RateLimiter) gin.HandlerFunc {
	known := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			known = append(known, []byte(k))
		}
	}
	return func(c *gin.Context) {
		supplied := c.GetHeader("x-api-key")
		if supplied == "" {
			supplied = c.Query("apiKey")
		}
		key, ok := matchKey(known, []byte(supplied))
		if supplied == "" || !ok {
			abort(c, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}
		if !rl.Allow(key) {
			c.Header("Retry-After", "1")
			abort(c, http.StatusTooManyRequests, "Rate limit exceeded for this API key.")
			return
		}
		c.Next()
	}
}

// matchKey compares against every key so timing does not reveal which one matched.
func matchKey(known [][]byte, supplied []byte) (string, bool) {
	var match []byte
	for _, k := range known {
		if subtle.ConstantTimeCompare(k, supplied) == 1 {
			match = k
		}
	}
	return string(match), match != nil
}
