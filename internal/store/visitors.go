package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const visitorKey = "visitors:total"

// VisitorCounter tracks page visits with a single Redis INCR, so the
// count survives restarts and stays correct with multiple server
// instances behind a load balancer.
type VisitorCounter struct {
	client *redis.Client
}

func NewVisitorCounter(client *redis.Client) *VisitorCounter {
	return &VisitorCounter{client: client}
}

// Hit records one visit and returns the new total.
func (s *VisitorCounter) Hit(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	n, err := s.client.Incr(ctx, visitorKey).Result()
	if err != nil {
		return 0, ErrUnavailable
	}

	return n, nil
}

// Total returns the current visit count. A counter that was never
// incremented reads as 0.
func (s *VisitorCounter) Total(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	n, err := s.client.Get(ctx, visitorKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, ErrUnavailable
	}

	return n, nil
}
