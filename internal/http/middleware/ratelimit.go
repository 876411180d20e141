// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds two rate limiters with different jobs:
//
//   - EdgeLimiter is a process-local token bucket per user or client IP
//     (golang.org/x/time/rate). It smooths bursts on every API route.
//   - ActionLimit enforces the per-user fixed-window quotas for mutating lead
//     operations (create, update, delete, import) through a ratelimit.Limiter,
//     which may be shared across instances via Redis.
//
// Idempotent replays detected by IdempotencyValidator bypass both.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-leads-backend/internal/ratelimit"
)

// keyFunc selects the identity used to key a token bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by authenticated user when known, client IP
// otherwise. The prefixes keep the two namespaces apart.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// EdgeLimiter is a per-key token bucket limiter. Idle buckets are evicted
// opportunistically. Safe for concurrent use.
type EdgeLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    keyFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewEdgeLimiter builds a limiter replenishing rps tokens per second with the
// given burst (coerced to at least 1).
func NewEdgeLimiter(rps float64, burst int, keyFn keyFunc) *EdgeLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &EdgeLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
	}
}

// bucket returns the limiter for key. Cleanup runs before the lookup so a
// stale bucket is evicted even when it is the one requested.
func (rl *EdgeLimiter) bucket(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay that must not consume quota.
func IsRateBypass(c *gin.Context) bool {
	return c.GetBool(ctxKeyRateBypass)
}

// Handler enforces the bucket for each request, answering 429 with
// Retry-After: 1 when it is empty.
func (rl *EdgeLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || rl.bucket(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

// Rate limit response headers.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
)

// ActionLimit allows at most limit requests per window for each user and
// action, keyed "<action>_<userID>". It must run after RequireSession.
//
// Allowed requests carry the X-RateLimit-* headers; rejected ones get 429
// with Retry-After in whole seconds. A limiter backend error is logged and
// the request is let through.
func ActionLimit(l ratelimit.Limiter, action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		d, err := l.Check(c.Request.Context(), action+"_"+UserID(c), limit, window)
		if err != nil {
			LoggerFrom(c).Error().Err(err).Str("action", action).Msg("rate limiter unavailable; allowing request")
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set(HeaderRateLimit, strconv.Itoa(d.Limit))
		h.Set(HeaderRateRemaining, strconv.Itoa(d.Remaining))
		h.Set(HeaderRateReset, d.ResetAt.UTC().Format(time.RFC3339))

		if d.Allowed {
			c.Next()
			return
		}

		rateLimited.WithLabelValues(action).Inc()
		secs := int((d.RetryAfter(time.Now()) + time.Second - 1) / time.Second)
		if secs < 1 {
			secs = 1
		}
		h.Set("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": h.Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "Too many requests. Please try again later.",
		})
	}
}
