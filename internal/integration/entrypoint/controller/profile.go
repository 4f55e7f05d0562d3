package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/budget-api/internal/application/usecase/profile"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/dto"
)

// ProfileController handles profile endpoints.
type ProfileController struct {
	getUseCase    *profile.GetProfileUseCase
	updateUseCase *profile.UpdateProfileUseCase
	avatarUseCase *profile.UpdateAvatarUseCase
}

// NewProfileController creates a new profile controller instance.
func NewProfileController(
	getUseCase *profile.GetProfileUseCase,
	updateUseCase *profile.UpdateProfileUseCase,
	avatarUseCase *profile.UpdateAvatarUseCase,
) *ProfileController {
	return &ProfileController{
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		avatarUseCase: avatarUseCase,
	}
}

// Get handles GET /profile requests.
func (c *ProfileController) Get(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.getUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		c.handleProfileError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToProfileResponse(user))
}

// Update handles PUT /profile requests.
func (c *ProfileController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err, "")
		return
	}

	user, err := c.updateUseCase.Execute(ctx.Request.Context(), profile.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		c.handleProfileError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToProfileResponse(user))
}

// UpdateAvatar handles POST /profile/avatar requests.
func (c *ProfileController) UpdateAvatar(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateAvatarRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err, string(domainerror.ErrCodeAvatarRequired))
		return
	}

	avatar, err := c.avatarUseCase.Execute(ctx.Request.Context(), userID, req.Avatar)
	if err != nil {
		c.handleProfileError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.AvatarResponse{Avatar: avatar})
}

func (c *ProfileController) handleProfileError(ctx *gin.Context, err error) {
	var profileErr *domainerror.ProfileError
	if errors.As(err, &profileErr) {
		ctx.JSON(c.getStatusCodeForProfileError(profileErr.Code), dto.ErrorResponse{
			Error: profileErr.Message,
			Code:  string(profileErr.Code),
		})
		return
	}
	internalError(ctx, err)
}

func (c *ProfileController) getStatusCodeForProfileError(code domainerror.ProfileErrorCode) int {
	switch code {
	case domainerror.ErrCodeProfileNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeProfileInvalidEmail,
		domainerror.ErrCodeAvatarRequired:
		return http.StatusBadRequest
	case domainerror.ErrCodeProfileEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
