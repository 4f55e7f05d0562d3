package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/middleware"
)

// currentUser returns the authenticated user ID, writing a 401 when absent.
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the :id parameter. Malformed ids are reported as missing records.
func pathID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	return id, err == nil
}

// invalidBody answers a body that could not be bound. Bodies cut off by the
// size limit get 413.
func invalidBody(ctx *gin.Context, err error, code string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
			Error: "Request body too large",
		})
		return
	}
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request body",
		Code:  code,
	})
}

// internalError logs err and writes the generic 500 body.
func internalError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	slog.Error("Unhandled request error",
		"request_id", requestid.Get(ctx),
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
