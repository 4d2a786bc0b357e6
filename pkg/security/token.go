package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// TokenTypeAccess marks short-lived tokens used on every request
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks the longer-lived tokens tracked server-side
	TokenTypeRefresh = "refresh"

	// AccessTTL is how long an access token stays valid
	AccessTTL = 15 * time.Minute
	// RefreshTTL is how long a refresh token and its store entry stay valid
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenWrongType = errors.New("token has the wrong type")
)

// TokenIssuer mints and verifies the HS256 signed tokens. It's built
// once at startup so a missing secret fails the process immediately
// instead of erroring on the first login.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("no signing secret provided")
	}

	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Access mints a short-lived access token carrying the user ID as its
// only claim besides the timestamps.
func (t *TokenIssuer) Access(userID string) (string, error) {
	return t.make(userID, TokenTypeAccess, AccessTTL)
}

// Refresh mints a refresh token. The caller is responsible for also
// writing it into the refresh store, otherwise it can't be revoked.
func (t *TokenIssuer) Refresh(userID string) (string, error) {
	return t.make(userID, TokenTypeRefresh, RefreshTTL)
}

func (t *TokenIssuer) make(userID, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    typ,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	// Refresh tokens double as store keys, so two logins in the same
	// second must still produce distinct strings
	if typ == TokenTypeRefresh {
		jti, err := gonanoid.New(16)
		if err != nil {
			return "", err
		}
		claims["jti"] = jti
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Parse verifies the signature, expiry and token type and returns the
// embedded user ID.
func (t *TokenIssuer) Parse(tokenStr, wantType string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
		}

		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	if typ, _ := claims["type"].(string); typ != wantType {
		return "", ErrTokenWrongType
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}
