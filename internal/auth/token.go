package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures are distinguished so callers can tell an expired
// token apart from a forged or garbled one.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenSignature = errors.New("token signature is invalid")
)

const defaultTokenTTL = 30 * 24 * time.Hour

// TokenService issues and verifies signed bearer tokens. Verification is a
// pure computation over the token and the secret; nothing is persisted.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. The secret must not be empty in
// production; in development an ephemeral random secret is generated so the
// process still starts, invalidating tokens on restart.
func NewTokenService(secret string, ttl time.Duration, production bool) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if production {
			return nil, errors.New("token signing secret is required")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate dev secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		log.Println("auth: no signing secret configured, using an ephemeral one; tokens will not survive a restart")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime applied to issued tokens.
func (t *TokenService) TTL() time.Duration {
	return t.ttl
}

// Issue produces a signed token whose subject is the given user id.
func (t *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the token's signature and expiry and returns its subject.
// Failures map onto ErrTokenMalformed, ErrTokenExpired, or
// ErrTokenSignature.
func (t *TokenService) Verify(tokenString string) (string, time.Time, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", time.Time{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", time.Time{}, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", time.Time{}, ErrTokenSignature
		default:
			return "", time.Time{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return "", time.Time{}, ErrTokenSignature
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", time.Time{}, ErrTokenMalformed
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return subject, expiresAt, nil
}
