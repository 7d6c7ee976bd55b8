package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/identware/user-service/internal/core/domain"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", "*", "http://localhost:8080", time.Hour)
}

func testUser() *domain.User {
	return &domain.User{
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Role:      domain.RoleAdmin,
		IsActive:  true,
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
	if claims.FirstName != "Alice" || claims.LastName != "Smith" {
		t.Fatalf("unexpected name claims: %s %s", claims.FirstName, claims.LastName)
	}
	if claims.Issuer != "http://localhost:8080" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestTokenCodec_RoleNotInClaims(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	// The payload must not carry the role; authorization re-reads it from
	// storage on every request.
	if strings.Contains(string(payload), `"role"`) {
		t.Fatalf("token payload carries role: %s", payload)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Issue(testUser(), time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	if _, err := codec.Decode(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	token, err := newTestCodec().Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokenCodec("other-secret", "*", "http://localhost:8080", time.Hour)
	if _, err := other.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenCodec_WrongAudienceOrIssuer(t *testing.T) {
	token, err := newTestCodec().Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	badAud := NewTokenCodec("test-secret", "other-audience", "http://localhost:8080", time.Hour)
	if _, err := badAud.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for audience mismatch, got %v", err)
	}

	badIss := NewTokenCodec("test-secret", "*", "http://elsewhere", time.Hour)
	if _, err := badIss.Decode(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for issuer mismatch, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := newTestCodec()
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := codec.Decode(raw); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestTokenCodec_DefaultExpiry(t *testing.T) {
	codec := NewTokenCodec("test-secret", "*", "iss", 30*time.Minute)

	token, err := codec.Issue(testUser(), time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	until := time.Until(claims.ExpiresAt.Time)
	if until < 29*time.Minute || until > 31*time.Minute {
		t.Fatalf("expected expiry ~30m out, got %v", until)
	}
}

func TestRandomSecret(t *testing.T) {
	s1, s2 := RandomSecret(), RandomSecret()
	if s1 == "" || s1 == s2 {
		t.Fatalf("expected distinct non-empty secrets, got %q and %q", s1, s2)
	}
}
