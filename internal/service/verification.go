// Package service contains the pieces of app logic that sit between
// the HTTP handlers and the external collaborators
package service

import (
	"avekl/folio-api/internal/store"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeDigits = 6

// CodeSender is what Verification needs from the mail side. Tests
// swap in a recorder so no SMTP connection is ever opened.
type CodeSender interface {
	SendVerificationCode(sendTo, code string) error
}

// Verification issues and consumes the email verification codes.
type Verification struct {
	Cache  *store.VerificationCache
	Sender CodeSender
}

func NewVerification(cache *store.VerificationCache, sender CodeSender) *Verification {
	return &Verification{
		Cache:  cache,
		Sender: sender,
	}
}

// Request generates a fresh code for an address, stores it with the
// default TTL (replacing any previous one) and mails it out. The code
// is stored before the send so a slow relay can't leave a mailed code
// that the cache doesn't know about.
func (s *Verification) Request(ctx context.Context, email string) error {
	code, err := genCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code, %w", err)
	}

	if err := s.Cache.Put(ctx, email, code, store.DefaultCodeTTL); err != nil {
		return err
	}

	if err := s.Sender.SendVerificationCode(email, code); err != nil {
		return fmt.Errorf("failed to send verification mail, %w", err)
	}

	return nil
}

// Confirm burns a code. See store.VerificationCache.Verify for the
// match semantics.
func (s *Verification) Confirm(ctx context.Context, email, code string) (bool, error) {
	return s.Cache.Verify(ctx, email, code)
}

// genCode returns a crypto-random numeric code, zero padded to
// codeDigits characters.
func genCode() (string, error) {
	upper := big.NewInt(1)
	for range codeDigits {
		upper.Mul(upper, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
