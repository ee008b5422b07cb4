package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rof/invgen/internal/core/domain"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	user := &domain.User{ID: "u1", Role: domain.RoleUser, Project: domain.ProjectNormanton}

	raw, err := iss.Sign(user)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := claims.Principal()
	if p.UserID != "u1" || p.Role != domain.RoleUser || p.Project != domain.ProjectNormanton {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestIssuer_DefaultTTL(t *testing.T) {
	iss := NewIssuer("secret", 0)
	if iss.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %v", iss.ttl)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return issuedAt }

	raw, err := iss.Sign(&domain.User{ID: "u1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	iss.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := iss.Parse(raw); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	raw, _ := NewIssuer("one", time.Hour).Sign(&domain.User{ID: "u1", Role: domain.RoleAdmin})
	if _, err := NewIssuer("two", time.Hour).Parse(raw); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.MapClaims{"id": "u1", "role": "Admin", "exp": time.Now().Add(time.Hour).Unix()}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewIssuer("secret", time.Hour).Parse(raw); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestIssuer_MissingIdentity(t *testing.T) {
	claims := jwt.MapClaims{"role": "Admin", "exp": time.Now().Add(time.Hour).Unix()}
	raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := NewIssuer("secret", time.Hour).Parse(raw); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
