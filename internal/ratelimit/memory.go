package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

// Memory is a process-local Limiter. All checks for all keys are serialized
// by one mutex, which makes each check-and-increment atomic.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time

	checks    int
	sweepEach int
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithClock replaces time.Now; tests use it to move across windows.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory returns an empty in-memory limiter.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		windows:   make(map[string]*window),
		now:       time.Now,
		sweepEach: 1024,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Check implements Limiter.
func (m *Memory) Check(_ context.Context, key string, limit int, win time.Duration) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.checks++
	if m.checks%m.sweepEach == 0 {
		m.sweep(now)
	}

	// The window is still open at exactly resetAt.
	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(win)}
		m.windows[key] = w
	}
	w.count++
	return decide(w.count, limit, w.resetAt), nil
}

// Len reports how many windows are tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// sweep drops expired windows. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if now.After(w.resetAt) {
			delete(m.windows, k)
		}
	}
}
