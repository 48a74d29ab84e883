package auth_test

import (
	"testing"

	"github.com/lekhanhduy0411/tiemlen/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("65a000000000000000000001", "staff")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "65a000000000000000000001" {
		t.Errorf("unexpected user id: %s", claims.UserID)
	}
	if claims.Role != "staff" {
		t.Errorf("unexpected role: %s", claims.Role)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("customer123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "customer123" {
		t.Fatal("hash must not equal the plain text")
	}
	if !auth.CheckPassword(hash, "customer123") {
		t.Error("expected correct password to verify")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("expected wrong password to fail")
	}
}
