// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an account holder. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Avatar       string
	Phone        string
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User with an empty profile.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail returns the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
