package utils

import (
	"testing"

	"github.com/groupstage/groupstage-backend/internal/config"
)

func testConfig(secret string, expiresIn int) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpiresIn = expiresIn
	return cfg
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig("test-secret", 3600)

	token, err := GenerateJWT("64f1c0de1234567890abcdef", "ops@example.com", "admin", cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(token, cfg)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if got := claims["user_id"]; got != "64f1c0de1234567890abcdef" {
		t.Errorf("user_id = %v, want 64f1c0de1234567890abcdef", got)
	}
	if got := claims["email"]; got != "ops@example.com" {
		t.Errorf("email = %v, want ops@example.com", got)
	}
	if got := claims["role"]; got != "admin" {
		t.Errorf("role = %v, want admin", got)
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("id", "a@b.c", "admin", testConfig("secret-one", 3600))
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateJWT(token, testConfig("secret-two", 3600)); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	cfg := testConfig("test-secret", -60)

	token, err := GenerateJWT("id", "a@b.c", "admin", cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateJWT(token, cfg); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token", testConfig("test-secret", 3600)); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("length = %d, want 32", len(a))
	}

	b, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString: %v", err)
	}
	if a == b {
		t.Error("two generated strings should differ")
	}
}
