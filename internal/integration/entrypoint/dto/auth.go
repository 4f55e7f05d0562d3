// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// RegisterRequest represents the request body for user registration.
// Presence of every field is checked by the use case so the error code stays stable.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response for authentication endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents the public user shape returned on login and register.
type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse is returned by deletions.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:     user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
}
