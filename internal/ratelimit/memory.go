package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	reset time.Time
	count int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter. A
// client's count resets entirely when its window boundary passes, which
// permits up to double-capacity bursts across a boundary.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*memoryEntry
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if limit <= 0 || window <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic sweep keeps memory bounded to recently-seen clients.
	for k, entry := range l.counters {
		if entry.reset.Before(now) {
			delete(l.counters, k)
		}
	}

	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{reset: now.Add(window)}
		l.counters[key] = entry
	}
	if entry.reset.Before(now) {
		entry.count = 0
		entry.reset = now.Add(window)
	}
	if entry.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: entry.reset}, nil
	}
	entry.count++
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: entry.reset}, nil
}

// Len reports the number of tracked clients. Used by tests.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}
