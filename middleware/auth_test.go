package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, method jwt.SigningMethod, userID string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signTestToken(t, jwt.SigningMethodHS256, "64a000000000000000000001", time.Now().Add(time.Hour))

	userID, err := ParseToken(signed)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != "64a000000000000000000001" {
		t.Errorf("got user id %q", userID)
	}
}

func TestParseTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed := signTestToken(t, jwt.SigningMethodHS256, "64a000000000000000000001", time.Now().Add(-time.Hour))

	if _, err := ParseToken(signed); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	signed := signTestToken(t, jwt.SigningMethodHS256, "64a000000000000000000001", time.Now().Add(time.Hour))

	t.Setenv("JWT_SECRET", "a-different-secret")
	if _, err := ParseToken(signed); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
