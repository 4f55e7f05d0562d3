package adapters

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "pw" {
		t.Fatal("HashPassword() returned the plain text")
	}
	if err := svc.VerifyPassword(hash, "pw"); err != nil {
		t.Errorf("VerifyPassword() with the right password error = %v", err)
	}
	if err := svc.VerifyPassword(hash, "nope"); err == nil {
		t.Error("VerifyPassword() with the wrong password returned nil")
	}
}

func TestNewPasswordService_CostFallback(t *testing.T) {
	svc := NewPasswordService(99).(*passwordService)
	if svc.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", svc.cost, DefaultBcryptCost)
	}
}
