package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID, "a@x.io")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Email != "a@x.io" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.io")
	}
	if d := time.Until(claims.ExpiresAt); d < DefaultTokenDuration-time.Minute || d > DefaultTokenDuration {
		t.Errorf("token lifetime = %v, want about %v", d, DefaultTokenDuration)
	}
}

func TestTokenService_Rejects(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenService("secret", WithClock(func() time.Time { return issued }))
	token, err := issuer.GenerateToken(context.Background(), uuid.New(), "a@x.io")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name    string
		secret  string
		at      time.Time
		token   string
		wantErr error
	}{
		{name: "expired", secret: "secret", at: issued.Add(8 * 24 * time.Hour), token: token, wantErr: domainerror.ErrExpiredToken},
		{name: "wrong secret", secret: "other", at: issued.Add(time.Hour), token: token, wantErr: domainerror.ErrInvalidToken},
		{name: "garbage", secret: "secret", at: issued, token: "not-a-token", wantErr: domainerror.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			svc := NewTokenService(tt.secret, WithClock(func() time.Time { return at }))
			_, err := svc.ValidateToken(context.Background(), tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateToken() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTokenService_RejectsOtherSigningMethod(t *testing.T) {
	svc := NewTokenService("secret")
	// header {"alg":"none","typ":"JWT"} with an empty signature
	token := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJpZCI6IngifQ."
	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
	}
}
