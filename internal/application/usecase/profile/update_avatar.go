package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// UpdateAvatarUseCase replaces the caller's avatar image reference.
type UpdateAvatarUseCase struct {
	userRepo adapter.UserRepository
}

// NewUpdateAvatarUseCase creates a new UpdateAvatarUseCase instance.
func NewUpdateAvatarUseCase(userRepo adapter.UserRepository) *UpdateAvatarUseCase {
	return &UpdateAvatarUseCase{userRepo: userRepo}
}

// Execute stores avatar and returns it.
func (uc *UpdateAvatarUseCase) Execute(ctx context.Context, userID uuid.UUID, avatar string) (string, error) {
	if avatar == "" {
		return "", domainerror.NewProfileError(
			domainerror.ErrCodeAvatarRequired,
			"avatar is required",
			errors.New("empty avatar"),
		)
	}

	user, err := findUser(ctx, uc.userRepo, userID)
	if err != nil {
		return "", err
	}
	user.Avatar = avatar
	user.UpdatedAt = time.Now().UTC()

	if err := save(ctx, uc.userRepo, user); err != nil {
		return "", err
	}
	return user.Avatar, nil
}
