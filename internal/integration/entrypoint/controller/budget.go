package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/budget-api/internal/application/usecase/budget"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	listUseCase   *budget.ListBudgetsUseCase
	createUseCase *budget.CreateBudgetUseCase
	updateUseCase *budget.UpdateBudgetUseCase
	deleteUseCase *budget.DeleteBudgetUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	listUseCase *budget.ListBudgetsUseCase,
	createUseCase *budget.CreateBudgetUseCase,
	updateUseCase *budget.UpdateBudgetUseCase,
	deleteUseCase *budget.DeleteBudgetUseCase,
) *BudgetController {
	return &BudgetController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /budgets requests.
func (c *BudgetController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	budgets, err := c.listUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		internalError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToBudgetListResponse(budgets))
}

// Create handles POST /budgets requests.
func (c *BudgetController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err, string(domainerror.ErrCodeMissingBudgetFields))
		return
	}

	created, err := c.createUseCase.Execute(ctx.Request.Context(), budget.CreateBudgetInput{
		UserID:         userID,
		Name:           req.Name,
		Limit:          req.Limit,
		Icon:           req.Icon,
		Color:          req.Color,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToBudgetResponse(created))
}

// Update handles PUT /budgets/:id requests.
func (c *BudgetController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx)
	if !ok {
		c.notFound(ctx)
		return
	}

	var req dto.UpdateBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err, "")
		return
	}

	updated, err := c.updateUseCase.Execute(ctx.Request.Context(), budget.UpdateBudgetInput{
		BudgetID:       budgetID,
		UserID:         userID,
		Name:           req.Name,
		Limit:          req.Limit,
		Icon:           req.Icon,
		Color:          req.Color,
		AlertThreshold: req.AlertThreshold,
	})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(updated))
}

// Delete handles DELETE /budgets/:id requests. Linked expenses are moved to
// per-category budgets unless ?reassign=false is given.
func (c *BudgetController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	budgetID, ok := pathID(ctx)
	if !ok {
		c.notFound(ctx)
		return
	}

	reassign := true
	if raw := ctx.Query("reassign"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			reassign = parsed
		}
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), budget.DeleteBudgetInput{
		BudgetID: budgetID,
		UserID:   userID,
		Reassign: reassign,
	})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteBudgetResponse{
		Success:        true,
		Reassigned:     output.Reassigned,
		CreatedBudgets: dto.ToBudgetListResponse(output.CreatedBudgets),
	})
}

func (c *BudgetController) notFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error: "Budget not found",
		Code:  string(domainerror.ErrCodeBudgetNotFound),
	})
}

// handleBudgetError handles budget errors and returns appropriate HTTP responses.
func (c *BudgetController) handleBudgetError(ctx *gin.Context, err error) {
	var budgetErr *domainerror.BudgetError
	if errors.As(err, &budgetErr) {
		ctx.JSON(c.getStatusCodeForBudgetError(budgetErr.Code), dto.ErrorResponse{
			Error: budgetErr.Message,
			Code:  string(budgetErr.Code),
		})
		return
	}
	internalError(ctx, err)
}

// getStatusCodeForBudgetError maps budget error codes to HTTP status codes.
func (c *BudgetController) getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeBudgetNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidBudgetLimit,
		domainerror.ErrCodeInvalidAlertThreshold,
		domainerror.ErrCodeInvalidBudgetColor,
		domainerror.ErrCodeMissingBudgetFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
