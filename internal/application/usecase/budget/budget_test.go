package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/filestore"
)

type fixture struct {
	txns    adapter.TransactionRepository
	budgets adapter.BudgetRepository
	create  *CreateBudgetUseCase
	update  *UpdateBudgetUseCase
	remove  *DeleteBudgetUseCase
	list    *ListBudgetsUseCase
}

func newFixture() *fixture {
	store := filestore.NewMemory()
	txns := filestore.NewTransactionRepository(store)
	budgets := filestore.NewBudgetRepository(store)
	return &fixture{
		txns:    txns,
		budgets: budgets,
		create:  NewCreateBudgetUseCase(budgets),
		update:  NewUpdateBudgetUseCase(budgets),
		remove:  NewDeleteBudgetUseCase(budgets, txns),
		list:    NewListBudgetsUseCase(budgets),
	}
}

func budgetCode(err error) domainerror.BudgetErrorCode {
	var bErr *domainerror.BudgetError
	if errors.As(err, &bErr) {
		return bErr.Code
	}
	return ""
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T { return &v }

func TestCreateBudget(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name     string
		input    CreateBudgetInput
		wantCode domainerror.BudgetErrorCode
	}{
		{"valid", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("300")}, ""},
		{"missing name", CreateBudgetInput{UserID: userID, Name: "  ", Limit: dec("300")}, domainerror.ErrCodeMissingBudgetFields},
		{"missing limit", CreateBudgetInput{UserID: userID, Name: "Food"}, domainerror.ErrCodeMissingBudgetFields},
		{"zero limit", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("0")}, domainerror.ErrCodeInvalidBudgetLimit},
		{"negative limit", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("-5")}, domainerror.ErrCodeInvalidBudgetLimit},
		{"bad color", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("10"), Color: "red"}, domainerror.ErrCodeInvalidBudgetColor},
		{"short color", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("10"), Color: "#abc"}, ""},
		{"threshold too high", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("10"), AlertThreshold: 101}, domainerror.ErrCodeInvalidAlertThreshold},
		{"threshold negative", CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("10"), AlertThreshold: -1}, domainerror.ErrCodeInvalidAlertThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			budget, err := f.create.Execute(context.Background(), tt.input)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, budgetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, budget.UserID)
		})
	}
}

func TestCreateBudget_Defaults(t *testing.T) {
	f := newFixture()
	budget, err := f.create.Execute(context.Background(), CreateBudgetInput{
		UserID: uuid.New(),
		Name:   " Food ",
		Limit:  dec("250.75"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Food", budget.Name)
	assert.Equal(t, entity.DefaultBudgetIcon, budget.Icon)
	assert.Equal(t, entity.DefaultBudgetColor, budget.Color)
	assert.Equal(t, entity.DefaultAlertThreshold, budget.AlertThreshold)
	assert.True(t, budget.Limit.Equal(decimal.RequireFromString("250.75")))

	listed, err := f.list.Execute(context.Background(), budget.UserID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, budget.ID, listed[0].ID)
}

func TestUpdateBudget(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := uuid.New()
	budget, err := f.create.Execute(ctx, CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("100")})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := f.update.Execute(ctx, UpdateBudgetInput{
			BudgetID: budget.ID,
			UserID:   userID,
			Limit:    dec("0"),
			Color:    ptr("#00FF00"),
		})
		require.NoError(t, err)
		assert.True(t, updated.Limit.IsZero())
		assert.Equal(t, "#00FF00", updated.Color)
		assert.Equal(t, "Food", updated.Name)
		assert.Equal(t, entity.DefaultAlertThreshold, updated.AlertThreshold)
	})

	t.Run("zero threshold resets to default", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, AlertThreshold: ptr(50)})
		require.NoError(t, err)
		updated, err := f.update.Execute(ctx, UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, AlertThreshold: ptr(0)})
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultAlertThreshold, updated.AlertThreshold)
	})

	invalid := []struct {
		name     string
		input    UpdateBudgetInput
		wantCode domainerror.BudgetErrorCode
	}{
		{"empty name", UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, Name: ptr(" ")}, domainerror.ErrCodeMissingBudgetFields},
		{"negative limit", UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, Limit: dec("-1")}, domainerror.ErrCodeInvalidBudgetLimit},
		{"bad color", UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, Color: ptr("#12345G")}, domainerror.ErrCodeInvalidBudgetColor},
		{"threshold", UpdateBudgetInput{BudgetID: budget.ID, UserID: userID, AlertThreshold: ptr(150)}, domainerror.ErrCodeInvalidAlertThreshold},
		{"foreign owner", UpdateBudgetInput{BudgetID: budget.ID, UserID: uuid.New(), Name: ptr("x")}, domainerror.ErrCodeBudgetNotFound},
		{"unknown id", UpdateBudgetInput{BudgetID: uuid.New(), UserID: userID}, domainerror.ErrCodeBudgetNotFound},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.update.Execute(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, budgetCode(err))
		})
	}
}

func addExpense(t *testing.T, f *fixture, userID uuid.UUID, category string, budgetID *uuid.UUID) *entity.Transaction {
	t.Helper()
	date, err := entity.ParseDate("2024-03-10")
	require.NoError(t, err)
	txn := entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.NewFromInt(10), category, date)
	txn.BudgetID = budgetID
	require.NoError(t, f.txns.Create(context.Background(), txn))
	return txn
}

func TestDeleteBudget_Reassigns(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := uuid.New()

	doomed, err := f.create.Execute(ctx, CreateBudgetInput{UserID: userID, Name: "Misc", Limit: dec("100")})
	require.NoError(t, err)
	groceries, err := f.create.Execute(ctx, CreateBudgetInput{UserID: userID, Name: "Groceries", Limit: dec("200")})
	require.NoError(t, err)

	food1 := addExpense(t, f, userID, "Groceries", &doomed.ID)
	food2 := addExpense(t, f, userID, "Groceries", &doomed.ID)
	fuel1 := addExpense(t, f, userID, "Fuel", &doomed.ID)
	fuel2 := addExpense(t, f, userID, "Fuel", &doomed.ID)
	untouched := addExpense(t, f, userID, "Fuel", nil)

	out, err := f.remove.Execute(ctx, DeleteBudgetInput{BudgetID: doomed.ID, UserID: userID, Reassign: true})
	require.NoError(t, err)

	assert.Equal(t, 4, out.Reassigned)
	require.Len(t, out.CreatedBudgets, 1)
	fuel := out.CreatedBudgets[0]
	assert.Equal(t, "Fuel", fuel.Name)
	assert.True(t, fuel.Limit.IsZero())
	assert.Equal(t, entity.DefaultBudgetColor, fuel.Color)
	assert.Equal(t, entity.DefaultBudgetIcon, fuel.Icon)

	budgets, err := f.list.Execute(ctx, userID)
	require.NoError(t, err)
	require.Len(t, budgets, 2)
	for _, b := range budgets {
		assert.NotEqual(t, doomed.ID, b.ID)
	}

	expect := map[uuid.UUID]*uuid.UUID{
		food1.ID:     &groceries.ID,
		food2.ID:     &groceries.ID,
		fuel1.ID:     &fuel.ID,
		fuel2.ID:     &fuel.ID,
		untouched.ID: nil,
	}
	for id, want := range expect {
		got, err := f.txns.FindByIDAndUser(ctx, id, userID)
		require.NoError(t, err)
		if want == nil {
			assert.Nil(t, got.BudgetID)
			continue
		}
		require.NotNil(t, got.BudgetID)
		assert.Equal(t, *want, *got.BudgetID)
	}
}

func TestDeleteBudget_SameNameIsNotReused(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := uuid.New()

	doomed, err := f.create.Execute(ctx, CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("100")})
	require.NoError(t, err)
	addExpense(t, f, userID, "Food", &doomed.ID)

	out, err := f.remove.Execute(ctx, DeleteBudgetInput{BudgetID: doomed.ID, UserID: userID, Reassign: true})
	require.NoError(t, err)
	require.Len(t, out.CreatedBudgets, 1)
	assert.NotEqual(t, doomed.ID, out.CreatedBudgets[0].ID)
	assert.Equal(t, "Food", out.CreatedBudgets[0].Name)
}

func TestDeleteBudget_WithoutReassignUnlinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userID := uuid.New()

	doomed, err := f.create.Execute(ctx, CreateBudgetInput{UserID: userID, Name: "Food", Limit: dec("100")})
	require.NoError(t, err)
	txn := addExpense(t, f, userID, "Food", &doomed.ID)

	out, err := f.remove.Execute(ctx, DeleteBudgetInput{BudgetID: doomed.ID, UserID: userID})
	require.NoError(t, err)
	assert.Zero(t, out.Reassigned)
	assert.Empty(t, out.CreatedBudgets)

	got, err := f.txns.FindByIDAndUser(ctx, txn.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got.BudgetID)
}

func TestDeleteBudget_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	owner := uuid.New()
	budget, err := f.create.Execute(ctx, CreateBudgetInput{UserID: owner, Name: "Food", Limit: dec("100")})
	require.NoError(t, err)

	_, err = f.remove.Execute(ctx, DeleteBudgetInput{BudgetID: budget.ID, UserID: uuid.New(), Reassign: true})
	assert.Equal(t, domainerror.ErrCodeBudgetNotFound, budgetCode(err))

	_, err = f.remove.Execute(ctx, DeleteBudgetInput{BudgetID: uuid.New(), UserID: owner})
	assert.Equal(t, domainerror.ErrCodeBudgetNotFound, budgetCode(err))

	listed, err := f.list.Execute(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
