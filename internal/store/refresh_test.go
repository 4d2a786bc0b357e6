package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return mr, rdb
}

func TestRefreshSaveResolve(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-1", "user-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	userID, err := s.Resolve(ctx, "tok-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("resolved user = %q, want user-1", userID)
	}
}

func TestRefreshResolveUnknown(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb)

	_, err := s.Resolve(context.Background(), "never-issued")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolve unknown = %v, want ErrNotFound", err)
	}
}

func TestRefreshRevokeIdempotent(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-1", "user-1", time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := s.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	if _, err := s.Resolve(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolve after revoke = %v, want ErrNotFound", err)
	}
}

func TestRefreshExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-1", "user-1", 10*time.Second); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(9 * time.Second)
	if _, err := s.Resolve(ctx, "tok-1"); err != nil {
		t.Fatalf("resolve before expiry: %v", err)
	}

	mr.FastForward(2 * time.Second)
	if _, err := s.Resolve(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("resolve after expiry = %v, want ErrNotFound", err)
	}
}

func TestRefreshStoreDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRefreshStore(rdb)
	mr.Close()

	if err := s.Save(context.Background(), "tok-1", "user-1", time.Hour); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("save with store down = %v, want ErrUnavailable", err)
	}

	if _, err := s.Resolve(context.Background(), "tok-1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("resolve with store down = %v, want ErrUnavailable", err)
	}
}
