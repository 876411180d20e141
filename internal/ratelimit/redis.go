package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow increments the key and starts its expiry on first use. It
// returns the new count and the remaining TTL in milliseconds.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// Redis is a Limiter whose windows live in Redis, so quotas hold across
// every instance sharing the same server.
type Redis struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedis wraps an existing client. Keys are namespaced with prefix.
func NewRedis(client redis.Scripter, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

// Check implements Limiter.
func (r *Redis) Check(ctx context.Context, key string, limit int, win time.Duration) (Decision, error) {
	res, err := fixedWindow.Run(ctx, r.client, []string{r.prefix + key}, windowMillis(win)).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: redis check %q: %w", key, err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}
	resetAt := r.now().Add(time.Duration(res[1]) * time.Millisecond)
	return decide(res[0], limit, resetAt), nil
}

// windowMillis rounds win up to whole milliseconds. PEXPIRE 0 deletes the
// key, so the result is never below 1.
func windowMillis(win time.Duration) int64 {
	ms := int64((win + time.Millisecond - 1) / time.Millisecond)
	if ms < 1 {
		return 1
	}
	return ms
}
