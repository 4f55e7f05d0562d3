package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/application/usecase/auth"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// UpdateProfileInput carries the fields to change. Nil fields are left untouched.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Name     *string
	Email    *string
	Avatar   *string
	Phone    *string
	Location *string
}

// UpdateProfileUseCase merges a partial update into the caller's profile.
type UpdateProfileUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(userRepo adapter.UserRepository) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo}
}

// Execute applies the update and returns the stored profile.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.User, error) {
	user, err := findUser(ctx, uc.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := entity.NormalizeEmail(*input.Email)
		if !auth.IsValidEmail(email) {
			return nil, domainerror.NewProfileError(
				domainerror.ErrCodeProfileInvalidEmail,
				"invalid email format",
				domainerror.ErrInvalidEmail,
			)
		}
		user.Email = email
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	user.UpdatedAt = time.Now().UTC()

	if err := save(ctx, uc.userRepo, user); err != nil {
		return nil, err
	}
	return user, nil
}

func save(ctx context.Context, repo adapter.UserRepository, user *entity.User) error {
	err := repo.Update(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domainerror.ErrEmailAlreadyExists):
		return domainerror.NewProfileError(
			domainerror.ErrCodeProfileEmailTaken,
			"email already in use",
			domainerror.ErrEmailAlreadyExists,
		)
	case errors.Is(err, domainerror.ErrUserNotFound):
		return domainerror.NewProfileError(
			domainerror.ErrCodeProfileNotFound,
			"User not found",
			domainerror.ErrUserNotFound,
		)
	default:
		return fmt.Errorf("failed to update user: %w", err)
	}
}
