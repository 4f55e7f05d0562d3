package dto

import (
	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

// UpdateProfileRequest represents a partial profile update. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Avatar   *string `json:"avatar"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// UpdateAvatarRequest represents the request body for avatar upload.
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// AvatarResponse echoes the stored avatar.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// ProfileResponse represents the user profile.
type ProfileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// ToProfileResponse converts a domain User entity to a ProfileResponse DTO.
func ToProfileResponse(user *entity.User) ProfileResponse {
	return ProfileResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Phone:    user.Phone,
		Location: user.Location,
	}
}
