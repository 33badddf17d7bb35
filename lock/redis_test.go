package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newRedisLocker(t *testing.T) (*Redis, *miniredis.Miniredis, context.Context) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedis(client), mr, context.Background()
}

func TestRedisTryAcquireRelease(t *testing.T) {
	l, _, ctx := newRedisLocker(t)

	h, err := l.TryAcquire(ctx, "k", time.Minute)
	if err != nil || h == nil {
		t.Fatalf("acquire: %v handle %v", err, h)
	}
	if h2, err := l.TryAcquire(ctx, "k", time.Minute); err != nil || h2 != nil {
		t.Fatalf("expected denial, handle %v err %v", h2, err)
	}
	if err := l.Release(ctx, h); err != nil {
		t.Fatalf("release: %v", err)
	}
	if h3, err := l.TryAcquire(ctx, "k", time.Minute); err != nil || h3 == nil {
		t.Fatalf("expected re-acquire, handle %v err %v", h3, err)
	}
}

func TestRedisReleaseIdempotent(t *testing.T) {
	l, _, ctx := newRedisLocker(t)

	h, err := l.TryAcquire(ctx, "k", time.Minute)
	if err != nil || h == nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := l.Release(ctx, h); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := l.Release(ctx, h); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if err := l.Release(ctx, nil); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}

func TestRedisTTLSelfHealing(t *testing.T) {
	l, mr, ctx := newRedisLocker(t)

	h, err := l.TryAcquire(ctx, "k", time.Second)
	if err != nil || h == nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(1100 * time.Millisecond)
	h2, err := l.TryAcquire(ctx, "k", time.Second)
	if err != nil || h2 == nil {
		t.Fatalf("expected acquire after expiry, handle %v err %v", h2, err)
	}
	// releasing the stale first handle must not free the second holder's lock
	if err := l.Release(ctx, h); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if h3, err := l.TryAcquire(ctx, "k", time.Second); err != nil || h3 != nil {
		t.Fatalf("stale release stole the lock, handle %v err %v", h3, err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("advance_game_day", "w1"); got != "task_lock:advance_game_day:w1" {
		t.Fatalf("key: %s", got)
	}
	if got := Key("advance_game_day", ""); got != "task_lock:advance_game_day:all" {
		t.Fatalf("all key: %s", got)
	}
}
