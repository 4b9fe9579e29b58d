package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	signed, err := NewAccessToken(secret, "user-1", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if signed.Token == "" {
		t.Fatal("empty token string")
	}
	if remaining := time.Until(signed.Exp); remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Errorf("unexpected expiry, %v remaining", remaining)
	}

	userID, jti, err := ParseToken(secret, signed.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want user-1", userID)
	}
	if jti == "" {
		t.Error("access token must carry a jti")
	}
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	const secret = "refresh-secret"
	signed, err := NewRefreshToken(secret, "user-1", "token-row-42", 30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	_, jti, err := ParseToken(secret, signed.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if jti != "token-row-42" {
		t.Errorf("jti = %q, want the persisted token row id", jti)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	signed, err := NewAccessToken("secret-a", "user-1", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, _, err := ParseToken("secret-b", signed.Token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, _, err := ParseToken("secret", raw); err != ErrInvalidToken {
			t.Errorf("ParseToken(%q) = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestNewInviteHash(t *testing.T) {
	a, err := NewInviteHash()
	if err != nil {
		t.Fatalf("NewInviteHash: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	b, err := NewInviteHash()
	if err != nil {
		t.Fatalf("NewInviteHash: %v", err)
	}
	if a == b {
		t.Error("two invite hashes collided; entropy source is broken")
	}
}
