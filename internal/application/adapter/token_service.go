// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims contained in a session token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, stateless session tokens.
type TokenService interface {
	// GenerateToken issues a token carrying the user's id and email.
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// ValidateToken verifies the signature and expiry and returns the claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}
