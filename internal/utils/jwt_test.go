package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
	const secret = "test-secret"

	at, err := NewAccessToken(secret, 7, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub := claims["sub"].(float64); uint64(sub) != 7 {
		t.Errorf("sub claim = %v, want 7", claims["sub"])
	}
	if claims["role"] != "ADMIN" {
		t.Errorf("role claim = %v, want ADMIN", claims["role"])
	}
	if remaining := time.Until(at.Exp); remaining <= 0 || remaining > 15*time.Minute {
		t.Errorf("expiry %s not within the 15 minute TTL", at.Exp)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right-secret", 7, "USER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil && tok.Valid {
		t.Error("token verified under a different secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("raw token length = %d, want 96 hex chars", len(rt.Raw))
	}
	if rt.Exp.Before(time.Now().Add(6 * 24 * time.Hour)) {
		t.Errorf("expiry %s earlier than the 7 day TTL", rt.Exp)
	}

	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Error("hashing the same raw token twice gave different results")
	}
	if h1 == rt.Raw {
		t.Error("stored hash equals the raw token")
	}

	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if HashRefreshRaw(other.Raw) == h1 {
		t.Error("two distinct tokens hashed to the same value")
	}
}
