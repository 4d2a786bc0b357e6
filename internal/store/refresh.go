package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshPrefix = "refresh:"

// RefreshStore maps issued refresh token strings to user IDs. A token
// stays resolvable until it's revoked or its TTL runs out, which is
// what makes server-side logout possible at all.
type RefreshStore struct {
	client *redis.Client
}

func NewRefreshStore(client *redis.Client) *RefreshStore {
	return &RefreshStore{client: client}
}

func (s *RefreshStore) key(token string) string {
	return refreshPrefix + token
}

// Save persists a freshly issued refresh token for userID.
func (s *RefreshStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if token == "" || userID == "" {
		return fmt.Errorf("refresh: missing token or user id")
	}

	ctx, cancel := opCtx(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Resolve returns the user ID a token was issued to, or ErrNotFound
// when the token was never stored, revoked or expired.
func (s *RefreshStore) Resolve(ctx context.Context, token string) (string, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	userID, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return userID, nil
}

// Revoke deletes a token. Deleting a token that's already gone is
// fine, logout stays idempotent.
func (s *RefreshStore) Revoke(ctx context.Context, token string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
