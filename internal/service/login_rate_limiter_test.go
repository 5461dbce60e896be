package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestMemoryLoginRateLimiter(t *testing.T) {
	l := NewMemoryLoginRateLimiter(time.Minute, 2).(*memoryLoginRateLimiter)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	if !l.Allow(ctx, "user@example.com") || !l.Allow(ctx, " USER@example.com") {
		t.Fatalf("expected first two attempts to pass")
	}
	if l.Allow(ctx, "user@example.com") {
		t.Fatalf("expected third attempt to be denied")
	}
	if !l.Allow(ctx, "other@example.com") {
		t.Fatalf("expected independent keys")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow(ctx, "user@example.com") {
		t.Fatalf("expected window to slide")
	}
}

func TestMemoryLoginRateLimiter_DropsExpiredKeys(t *testing.T) {
	l := NewMemoryLoginRateLimiter(time.Minute, 2).(*memoryLoginRateLimiter)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		l.Allow(ctx, email)
	}
	if len(l.hits) != 3 {
		t.Fatalf("expected 3 tracked keys, got %d", len(l.hits))
	}

	now = now.Add(30 * time.Second)
	l.Allow(ctx, "b@example.com")

	now = now.Add(45 * time.Second)
	l.Allow(ctx, "d@example.com")
	if _, ok := l.hits["a@example.com"]; ok {
		t.Fatalf("expected expired key to be dropped")
	}
	if _, ok := l.hits["b@example.com"]; !ok {
		t.Fatalf("expected key with a recent attempt to be kept")
	}
	if len(l.hits) != 2 {
		t.Fatalf("expected b and d to remain, got %v", l.hits)
	}
}

func TestRedisLoginRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisLoginRateLimiter
		if !l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisLoginRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "login:rl:"}
		if l.Allow(ctx, "   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisLoginRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "login:rl:"}
		if !l.Allow(ctx, " User@Example.com ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "login:rl:user@example.com" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisLoginAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisLoginRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "login:rl:"}
		if l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisLoginRateLimiter{client: &mockRedisEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3, prefix: "login:rl:"}
		if !l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestNewRedisLoginRateLimiter_NilClient(t *testing.T) {
	if NewRedisLoginRateLimiter(nil, time.Minute, 3) != nil {
		t.Fatalf("expected nil limiter without client")
	}
}
