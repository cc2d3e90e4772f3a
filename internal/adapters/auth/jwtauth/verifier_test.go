package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims, method jwt.SigningMethod) string {
	t.Helper()

	tok := jwt.NewWithClaims(method, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerify_OK(t *testing.T) {
	v := NewVerifier("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "owner@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256)

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_Rejections(t *testing.T) {
	v := NewVerifier("test-secret")
	ctx := context.Background()

	expired := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, jwt.SigningMethodHS256)

	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256)

	for name, token := range map[string]string{
		"empty token":  "",
		"garbage":      "not.a.jwt",
		"expired":      expired,
		"wrong secret": wrongSecret,
	} {
		if _, err := v.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestVerify_MissingSub(t *testing.T) {
	v := NewVerifier("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"email": "owner@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, jwt.SigningMethodHS256)

	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected an error for a token without sub")
	}
}
