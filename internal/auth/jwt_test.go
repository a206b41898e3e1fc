package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTService_GenerateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", 24)

	accountID := uuid.New()
	token, err := service.GenerateToken(accountID, "streamer@example.com")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("Expected token to be generated")
	}
}

func TestJWTService_ValidateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", 24)

	accountID := uuid.New()
	token, err := service.GenerateToken(accountID, "streamer@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if claims.UserID != accountID {
		t.Errorf("Expected account id %s, got %s", accountID.String(), claims.UserID.String())
	}
}

func TestJWTService_ValidateToken_Invalid(t *testing.T) {
	service := NewJWTService("test-secret-key", 24)

	if _, err := service.ValidateToken("invalid.token.here"); err == nil {
		t.Fatal("Expected error for invalid token")
	}
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	service := NewJWTService("test-secret-key", 24)
	other := NewJWTService("different-secret", 24)

	token, err := service.GenerateToken(uuid.New(), "streamer@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("Expected error for token signed with another secret")
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret-key", -1) // already expired

	token, err := service.GenerateToken(uuid.New(), "streamer@example.com")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	time.Sleep(time.Millisecond * 100)

	if _, err := service.ValidateToken(token); err == nil {
		t.Fatal("Expected error for expired token")
	}
}
