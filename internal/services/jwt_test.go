package services

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.GenerateToken(42, "user@example.com", "Test User")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" || claims.FullName != "Test User" {
		t.Fatalf("claims not round-tripped: %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").GenerateToken(1, "a@b.c", "A")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := NewTokenService("secret-b").ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateTokenTampered(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.GenerateToken(1, "a@b.c", "A")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + ".eyJ1c2VySWQiOjk5OX0." + parts[2]
	if _, err := svc.ValidateToken(tampered); err == nil {
		t.Fatal("expected validation to fail for tampered payload")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := NewTokenService("s").ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
