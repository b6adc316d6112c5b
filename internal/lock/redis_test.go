package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedis(client)
}

func TestRedis_AcquireRelease(t *testing.T) {
	mr, l := newTestRedis(t)
	ctx := context.Background()
	key := SlotKey(uuid.New(), time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	release, err := l.Acquire(ctx, key, 10*time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 10*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	if _, err := l.Acquire(ctx, key, 10*time.Second); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatalf("key still present after release")
	}
	if err := release(ctx); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if _, err := l.Acquire(ctx, key, 10*time.Second); err != nil {
		t.Fatalf("expected key to be free after release, got %v", err)
	}
}

func TestRedis_ReleaseKeepsForeignLock(t *testing.T) {
	mr, l := newTestRedis(t)
	ctx := context.Background()
	key := "clinic:slot-lock:test"

	stale, err := l.Acquire(ctx, key, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if _, err := l.Acquire(ctx, key, time.Minute); err != nil {
		t.Fatalf("expected expired lock to be replaced, got %v", err)
	}
	owner, err := mr.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Просроченный владелец не снимает чужую блокировку.
	if err := stale(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	got, err := mr.Get(key)
	if err != nil || got != owner {
		t.Fatalf("foreign lock removed: value = %q, err = %v", got, err)
	}
}

func TestRedis_Unavailable(t *testing.T) {
	mr, l := newTestRedis(t)
	addr := mr.Addr()
	mr.Close()

	_, err := l.Acquire(context.Background(), "k", time.Second)
	if err == nil || errors.Is(err, ErrLocked) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if _, err := NewRedisClient(context.Background(), addr, "", 0); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
}
