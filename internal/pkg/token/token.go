// Package token issues and verifies the signed bearer tokens handed out at login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rof/invgen/internal/core/domain"
)

// DefaultTTL is the lifetime of a token when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalid is returned for malformed, forged or expired tokens.
var ErrInvalid = errors.New("invalid token")

// Claims is the token payload.
type Claims struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Project string `json:"project,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the caller identity used by the core.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		UserID:  c.ID,
		Role:    domain.Role(c.Role),
		Project: domain.Project(c.Project),
	}
}

// Issuer signs and verifies tokens with an HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign issues a token for user.
func (i *Issuer) Sign(user *domain.User) (string, error) {
	now := i.now()
	claims := Claims{
		ID:      user.ID,
		Role:    string(user.Role),
		Project: string(user.Project),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	if claims.ID == "" || claims.Role == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
