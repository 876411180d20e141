// Package ratelimit implements fixed-window request quotas keyed by an
// arbitrary string (typically "<action>_<userID>").
//
// The first Check for a key opens a window of the given length with count 1.
// Later checks inside the window increment the count; once the count exceeds
// the limit, checks are denied until the window elapses, at which point the
// next Check opens a fresh window. A window's reset time never moves while it
// is open.
//
// Two backends are provided: Memory, which is process-local, and Redis, which
// shares windows across instances.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a Check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long a denied caller should wait. It is zero when the
// request was allowed.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed {
		return 0
	}
	if w := d.ResetAt.Sub(now); w > 0 {
		return w
	}
	return 0
}

// Limiter is the quota gate used by the HTTP layer.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

func decide(count int64, limit int, resetAt time.Time) Decision {
	rem := int64(limit) - count
	if rem < 0 {
		rem = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: int(rem),
		ResetAt:   resetAt,
	}
}
