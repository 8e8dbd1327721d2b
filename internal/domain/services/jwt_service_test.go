package services

import (
	"testing"

	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	condoID := uint(7)
	token, err := svc.GenerateToken(42, "condo", &condoID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Role != "condo" {
		t.Errorf("role = %q, want condo", claims.Role)
	}
	if claims.CondoID == nil || *claims.CondoID != 7 {
		t.Errorf("condo id = %v, want 7", claims.CondoID)
	}
	if claims.Issuer != "condy-access-service" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestJWTServiceNoCondoClaim(t *testing.T) {
	svc := NewJWTService(newTestConfig())

	token, err := svc.GenerateToken(1, "resident", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if claims.CondoID != nil {
		t.Errorf("condo id should be absent, got %v", claims.CondoID)
	}
}

func TestJWTServiceRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(newTestConfig())
	other := NewJWTService(&config.Config{JWTSecretKey: "different-secret"})

	token, err := svc.GenerateToken(1, "resident", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ExtractClaims(token); err == nil {
		t.Error("token signed with another secret accepted")
	}

	if _, err := svc.ExtractClaims("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}
}
