package store

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verifyPrefix = "verify:"

	// DefaultCodeTTL is how long a verification code stays valid
	DefaultCodeTTL = 180 * time.Second
)

// VerificationCache holds email verification codes keyed by address.
// At most one live code exists per address and a successful match
// consumes it.
type VerificationCache struct {
	client *redis.Client
}

func NewVerificationCache(client *redis.Client) *VerificationCache {
	return &VerificationCache{client: client}
}

func (s *VerificationCache) key(email string) string {
	return verifyPrefix + email
}

// Put stores a code for an address, replacing any previous one.
func (s *VerificationCache) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.key(email), code, ttl).Err(); err != nil {
		return ErrUnavailable
	}

	return nil
}

// Verify checks a submitted code against the stored one and deletes
// the entry on a match. A wrong, expired or never-requested code all
// come back as (false, nil). The caller can't tell them apart and
// neither can the client, but an unreachable store is a separate
// condition and surfaces as ErrUnavailable instead of a silent false.
func (s *VerificationCache) Verify(ctx context.Context, email, code string) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	stored, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, ErrUnavailable
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.client.Del(ctx, s.key(email)).Err(); err != nil {
		return false, ErrUnavailable
	}

	return true, nil
}
