// Package adaptertest holds the behaviour every repository implementation must
// share, run from each store's own tests.
package adaptertest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

// Repositories groups the repositories of one store.
type Repositories struct {
	Users        adapter.UserRepository
	Transactions adapter.TransactionRepository
	Budgets      adapter.BudgetRepository
}

// Factory returns repositories over a fresh, empty store.
type Factory func(t *testing.T) Repositories

// RunContract runs the shared repository behaviour against the store built by newRepos.
func RunContract(t *testing.T, newRepos Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newRepos(t)) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, newRepos(t)) })
	t.Run("budgets", func(t *testing.T) { testBudgets(t, newRepos(t)) })
	t.Run("repeated lists", func(t *testing.T) { testRepeatedLists(t, newRepos(t)) })
	t.Run("delete with reassignment", func(t *testing.T) { testDeleteWithReassignment(t, newRepos(t)) })
	t.Run("delete with reassignment of foreign budget", func(t *testing.T) { testDeleteForeignBudget(t, newRepos(t)) })
}

// Day returns the calendar date at UTC midnight.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testUsers(t *testing.T, repos Repositories) {
	ctx := context.Background()

	alice := entity.NewUser("Alice@Example.com ", "Alice", "hash")
	require.NoError(t, repos.Users.Create(ctx, alice))
	assert.Equal(t, "alice@example.com", alice.Email)

	dup := entity.NewUser("alice@example.com", "Other", "hash")
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), domainerror.ErrEmailAlreadyExists)

	got, err := repos.Users.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	exists, err := repos.Users.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repos.Users.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repos.Users.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)

	got.Phone = "555"
	got.Avatar = "data:image/png;base64,AAAA"
	require.NoError(t, repos.Users.Update(ctx, got))

	reread, err := repos.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", reread.Phone)
	assert.Equal(t, "data:image/png;base64,AAAA", reread.Avatar)
	assert.Equal(t, "Alice", reread.Name)

	bob := entity.NewUser("bob@example.com", "Bob", "hash")
	require.NoError(t, repos.Users.Create(ctx, bob))
	bob.Email = "alice@example.com"
	assert.ErrorIs(t, repos.Users.Update(ctx, bob), domainerror.ErrEmailAlreadyExists)

	ghost := entity.NewUser("ghost@example.com", "Ghost", "hash")
	assert.ErrorIs(t, repos.Users.Update(ctx, ghost), domainerror.ErrUserNotFound)
}

func newExpense(userID uuid.UUID, amount string, category string, offset time.Duration) *entity.Transaction {
	txn := entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.RequireFromString(amount), category, Day(2024, time.March, 10))
	txn.CreatedAt = txn.CreatedAt.Add(offset)
	txn.UpdatedAt = txn.CreatedAt
	return txn
}

func testTransactions(t *testing.T, repos Repositories) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	first := newExpense(owner, "12.50", "Food", 0)
	first.Tags = []string{"lunch", "work"}
	first.Note = "with team"
	second := newExpense(owner, "3", "Transport", time.Second)
	foreign := newExpense(other, "99", "Food", 2*time.Second)

	for _, txn := range []*entity.Transaction{first, second, foreign} {
		require.NoError(t, repos.Transactions.Create(ctx, txn))
	}

	list, err := repos.Transactions.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	got, err := repos.Transactions.FindByIDAndUser(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, []string{"lunch", "work"}, got.Tags)
	assert.Equal(t, "with team", got.Note)
	assert.True(t, got.Date.Equal(Day(2024, time.March, 10)), "date = %v", got.Date)
	assert.Nil(t, got.BudgetID)

	_, err = repos.Transactions.FindByIDAndUser(ctx, foreign.ID, owner)
	assert.ErrorIs(t, err, domainerror.ErrTransactionNotFound)

	budgetID := uuid.New()
	got.Category = "Dining"
	got.BudgetID = &budgetID
	got.Tags = []string{}
	require.NoError(t, repos.Transactions.Update(ctx, got))

	got, err = repos.Transactions.FindByIDAndUser(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Dining", got.Category)
	require.NotNil(t, got.BudgetID)
	assert.Equal(t, budgetID, *got.BudgetID)
	assert.Empty(t, got.Tags)

	foreign.UserID = owner
	assert.ErrorIs(t, repos.Transactions.Update(ctx, foreign), domainerror.ErrTransactionNotFound)

	assert.ErrorIs(t, repos.Transactions.DeleteByIDAndUser(ctx, second.ID, other), domainerror.ErrTransactionNotFound)
	require.NoError(t, repos.Transactions.DeleteByIDAndUser(ctx, second.ID, owner))
	assert.ErrorIs(t, repos.Transactions.DeleteByIDAndUser(ctx, second.ID, owner), domainerror.ErrTransactionNotFound)

	list, err = repos.Transactions.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repos.Transactions.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func newBudget(userID uuid.UUID, name, limit string, offset time.Duration) *entity.Budget {
	b := entity.NewBudget(userID, name, decimal.RequireFromString(limit))
	b.CreatedAt = b.CreatedAt.Add(offset)
	b.UpdatedAt = b.CreatedAt
	return b
}

func testBudgets(t *testing.T, repos Repositories) {
	ctx := context.Background()
	owner := uuid.New()

	food := newBudget(owner, "Food", "300", 0)
	rent := newBudget(owner, "Rent", "1000", time.Second)
	require.NoError(t, repos.Budgets.Create(ctx, food))
	require.NoError(t, repos.Budgets.Create(ctx, rent))

	list, err := repos.Budgets.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Food", list[0].Name)
	assert.Equal(t, entity.DefaultBudgetIcon, list[0].Icon)
	assert.Equal(t, entity.DefaultBudgetColor, list[0].Color)
	assert.Equal(t, entity.DefaultAlertThreshold, list[0].AlertThreshold)
	assert.True(t, list[0].Limit.Equal(decimal.NewFromInt(300)))

	food.AlertThreshold = 50
	food.Limit = decimal.Zero
	require.NoError(t, repos.Budgets.Update(ctx, food))
	got, err := repos.Budgets.FindByIDAndUser(ctx, food.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 50, got.AlertThreshold)
	assert.True(t, got.Limit.IsZero())

	_, err = repos.Budgets.FindByIDAndUser(ctx, food.ID, uuid.New())
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)

	plain := &entity.BudgetRemoval{UserID: owner, BudgetID: rent.ID}
	require.NoError(t, repos.Budgets.DeleteWithReassignment(ctx, plain))
	assert.ErrorIs(t, repos.Budgets.DeleteWithReassignment(ctx, plain), domainerror.ErrBudgetNotFound)
}

func testRepeatedLists(t *testing.T, repos Repositories) {
	ctx := context.Background()
	owner := uuid.New()

	for i, category := range []string{"Food", "Rent", "Fuel"} {
		offset := time.Duration(i) * time.Second
		require.NoError(t, repos.Transactions.Create(ctx, newExpense(owner, "10", category, offset)))
		require.NoError(t, repos.Budgets.Create(ctx, newBudget(owner, category, "100", offset)))
	}

	txnIDs := func() []uuid.UUID {
		list, err := repos.Transactions.ListByUser(ctx, owner)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(list))
		for _, txn := range list {
			ids = append(ids, txn.ID)
		}
		return ids
	}
	budgetIDs := func() []uuid.UUID {
		list, err := repos.Budgets.ListByUser(ctx, owner)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(list))
		for _, b := range list {
			ids = append(ids, b.ID)
		}
		return ids
	}

	firstTxns := txnIDs()
	require.Len(t, firstTxns, 3)
	assert.Equal(t, firstTxns, txnIDs())

	firstBudgets := budgetIDs()
	require.Len(t, firstBudgets, 3)
	assert.Equal(t, firstBudgets, budgetIDs())
}

func testDeleteWithReassignment(t *testing.T, repos Repositories) {
	ctx := context.Background()
	owner := uuid.New()

	groceries := newBudget(owner, "Groceries", "400", 0)
	food := newBudget(owner, "Food", "200", time.Second)
	require.NoError(t, repos.Budgets.Create(ctx, groceries))
	require.NoError(t, repos.Budgets.Create(ctx, food))

	linkedFood := newExpense(owner, "10", "Food", 0)
	linkedCoffee := newExpense(owner, "4", "Coffee", time.Second)
	linkedIncome := entity.NewTransaction(owner, entity.TransactionTypeIncome, decimal.NewFromInt(50), "Refund", Day(2024, time.March, 11))
	unrelated := newExpense(owner, "7", "Food", 2*time.Second)
	for _, txn := range []*entity.Transaction{linkedFood, linkedCoffee, linkedIncome} {
		txn.BudgetID = &groceries.ID
	}
	for _, txn := range []*entity.Transaction{linkedFood, linkedCoffee, linkedIncome, unrelated} {
		require.NoError(t, repos.Transactions.Create(ctx, txn))
	}

	coffee := entity.NewBudget(owner, "Coffee", decimal.Zero)
	coffee.CreatedAt = coffee.CreatedAt.Add(2 * time.Second)
	removal := &entity.BudgetRemoval{
		UserID:     owner,
		BudgetID:   groceries.ID,
		NewBudgets: []*entity.Budget{coffee},
		Relinks: map[uuid.UUID]uuid.UUID{
			linkedFood.ID:   food.ID,
			linkedCoffee.ID: coffee.ID,
		},
	}
	require.NoError(t, repos.Budgets.DeleteWithReassignment(ctx, removal))

	budgets, err := repos.Budgets.ListByUser(ctx, owner)
	require.NoError(t, err)
	names := make([]string, 0, len(budgets))
	for _, b := range budgets {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"Food", "Coffee"}, names)

	got, err := repos.Transactions.FindByIDAndUser(ctx, linkedFood.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got.BudgetID)
	assert.Equal(t, food.ID, *got.BudgetID)

	got, err = repos.Transactions.FindByIDAndUser(ctx, linkedCoffee.ID, owner)
	require.NoError(t, err)
	require.NotNil(t, got.BudgetID)
	assert.Equal(t, coffee.ID, *got.BudgetID)

	got, err = repos.Transactions.FindByIDAndUser(ctx, linkedIncome.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, got.BudgetID, "leftover links to the removed budget are cleared")

	got, err = repos.Transactions.FindByIDAndUser(ctx, unrelated.ID, owner)
	require.NoError(t, err)
	assert.Nil(t, got.BudgetID)
}

func testDeleteForeignBudget(t *testing.T, repos Repositories) {
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	b := newBudget(owner, "Food", "100", 0)
	require.NoError(t, repos.Budgets.Create(ctx, b))

	fallback := entity.NewBudget(intruder, "Food", decimal.Zero)
	err := repos.Budgets.DeleteWithReassignment(ctx, &entity.BudgetRemoval{
		UserID:     intruder,
		BudgetID:   b.ID,
		NewBudgets: []*entity.Budget{fallback},
	})
	assert.ErrorIs(t, err, domainerror.ErrBudgetNotFound)

	_, err = repos.Budgets.FindByIDAndUser(ctx, b.ID, owner)
	assert.NoError(t, err, "budget must survive a rejected removal")

	list, err := repos.Budgets.ListByUser(ctx, intruder)
	require.NoError(t, err)
	assert.Empty(t, list, "no fallback budget may be created when the removal is rejected")
}
