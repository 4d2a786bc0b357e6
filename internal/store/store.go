// Package store contains the Redis-backed short-lived stores: refresh
// token sessions, email verification codes and the visitor counter.
// Expiry is handled entirely by Redis TTLs, the app never reaps
// entries itself.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means the key doesn't exist or has already expired.
	ErrNotFound = errors.New("entry not found")

	// ErrUnavailable means the store itself couldn't be reached. Callers
	// must not present this to clients as a bad code or missing token.
	ErrUnavailable = errors.New("store unavailable")
)

// Every round-trip gets its own deadline so a dead Redis can't
// hold a request hostage
const opTimeout = 3 * time.Second

func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
