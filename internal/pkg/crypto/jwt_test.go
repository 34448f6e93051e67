package crypto

import (
	"errors"
	"testing"
)

const testSecret = "test-secret-key-with-enough-length"

// TestTokenRoundTrip tests generating and parsing an access token
func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u-1", "org-1", "user@example.com", "member", testSecret, 1)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Errorf("UserID = %s, want u-1", claims.UserID)
	}
	if claims.OrgID != "org-1" {
		t.Errorf("OrgID = %s, want org-1", claims.OrgID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %s, want user@example.com", claims.Email)
	}
	if claims.Role != "member" {
		t.Errorf("Role = %s, want member", claims.Role)
	}
}

// TestExpiredToken tests that an expired token yields ErrTokenExpired, not ErrTokenInvalid
func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("u-1", "org-1", "user@example.com", "member", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

// TestInvalidToken tests malformed and wrong-secret tokens
func TestInvalidToken(t *testing.T) {
	if _, err := ParseToken("not-a-token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("malformed token: expected ErrTokenInvalid, got %v", err)
	}

	token, _ := GenerateToken("u-1", "org-1", "user@example.com", "member", testSecret, 1)
	if _, err := ParseToken(token, "another-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret: expected ErrTokenInvalid, got %v", err)
	}
}

// TestRefreshTokenRoundTrip tests the refresh token type check
func TestRefreshTokenRoundTrip(t *testing.T) {
	refresh, err := GenerateRefreshToken("u-1", testSecret, 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ParseRefreshToken(refresh, testSecret)
	if err != nil {
		t.Fatalf("ParseRefreshToken failed: %v", err)
	}
	if claims.UserID != "u-1" {
		t.Errorf("UserID = %s, want u-1", claims.UserID)
	}

	// an access token must not pass as a refresh token
	access, _ := GenerateToken("u-1", "org-1", "user@example.com", "member", testSecret, 1)
	if _, err := ParseRefreshToken(access, testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("access token as refresh: expected ErrTokenInvalid, got %v", err)
	}
}

// TestPasswordHashing tests bcrypt hash and verify
func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hashed == "secret123" {
		t.Error("hash should not equal the plain password")
	}
	if !CheckPassword("secret123", hashed) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong", hashed) {
		t.Error("wrong password should not verify")
	}
}
