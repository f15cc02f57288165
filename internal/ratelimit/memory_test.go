package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterEnforcesLimit(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i := 0; i < 100; i++ {
		result, err := limiter.Allow(context.Background(), "client-a", 100, window, now)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if result.Remaining != 100-i-1 {
			t.Fatalf("request %d: expected remaining=%d, got %d", i, 100-i-1, result.Remaining)
		}
	}

	result, err := limiter.Allow(context.Background(), "client-a", 100, window, now)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if result.Allowed {
		t.Fatalf("expected request over the limit to be denied")
	}
	if result.Remaining != 0 {
		t.Fatalf("expected remaining=0, got %d", result.Remaining)
	}
	if !result.Reset.Equal(now.Add(window)) {
		t.Fatalf("expected reset=%s, got %s", now.Add(window), result.Reset)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if result, _ := limiter.Allow(context.Background(), "client-a", 1, time.Minute, now); !result.Allowed {
		t.Fatalf("first request for client-a should be allowed")
	}
	if result, _ := limiter.Allow(context.Background(), "client-a", 1, time.Minute, now); result.Allowed {
		t.Fatalf("second request for client-a should be denied")
	}
	if result, _ := limiter.Allow(context.Background(), "client-b", 1, time.Minute, now); !result.Allowed {
		t.Fatalf("client-b should have its own budget")
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	window := 15 * time.Minute

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(context.Background(), "client-a", 2, window, now); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
	}
	if result, _ := limiter.Allow(context.Background(), "client-a", 2, window, now); result.Allowed {
		t.Fatalf("expected exhausted budget before the window boundary")
	}

	later := now.Add(window + time.Second)
	result, err := limiter.Allow(context.Background(), "client-a", 2, window, later)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("expected a fresh budget after the window boundary")
	}
	if result.Remaining != 1 {
		t.Fatalf("expected remaining=1 after reset, got %d", result.Remaining)
	}
}

func TestMemoryLimiterSweepsExpiredEntries(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	for _, key := range []string{"a", "b", "c"} {
		if _, err := limiter.Allow(context.Background(), key, 10, window, now); err != nil {
			t.Fatalf("allow %s: %v", key, err)
		}
	}
	if limiter.Len() != 3 {
		t.Fatalf("expected 3 tracked clients, got %d", limiter.Len())
	}

	later := now.Add(window + time.Second)
	if _, err := limiter.Allow(context.Background(), "d", 10, window, later); err != nil {
		t.Fatalf("allow d: %v", err)
	}
	if limiter.Len() != 1 {
		t.Fatalf("expected expired clients to be swept, got %d tracked", limiter.Len())
	}
}

func TestMemoryLimiterDisabledConfig(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if result, _ := limiter.Allow(context.Background(), "client-a", 0, time.Minute, now); !result.Allowed {
		t.Fatalf("zero limit should disable enforcement")
	}
	if result, _ := limiter.Allow(context.Background(), "client-a", 10, 0, now); !result.Allowed {
		t.Fatalf("zero window should disable enforcement")
	}
	if result, _ := limiter.Allow(context.Background(), "", 10, time.Minute, now); !result.Allowed {
		t.Fatalf("empty key should disable enforcement")
	}
}
