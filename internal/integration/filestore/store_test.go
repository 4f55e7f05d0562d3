package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/budget-api/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
)

func TestRepositories_Memory(t *testing.T) {
	adaptertest.RunContract(t, func(t *testing.T) adaptertest.Repositories {
		store := NewMemory()
		return adaptertest.Repositories{
			Users:        NewUserRepository(store),
			Transactions: NewTransactionRepository(store),
			Budgets:      NewBudgetRepository(store),
		}
	})
}

func TestRepositories_Disk(t *testing.T) {
	adaptertest.RunContract(t, func(t *testing.T) adaptertest.Repositories {
		store, err := Open(t.TempDir())
		require.NoError(t, err)
		return adaptertest.Repositories{
			Users:        NewUserRepository(store),
			Transactions: NewTransactionRepository(store),
			Budgets:      NewBudgetRepository(store),
		}
	})
}

func TestOpen_MissingFilesAreEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	store, err := Open(dir)
	require.NoError(t, err)

	list, err := NewBudgetRepository(store).ListByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, store.HealthCheck(context.Background()))
}

func TestOpen_ReloadsPersistedState(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	user := entity.NewUser("a@x.io", "A", "hash")
	require.NoError(t, NewUserRepository(store).Create(ctx, user))
	txn := entity.NewTransaction(user.ID, entity.TransactionTypeIncome, decimal.NewFromInt(100), "Salary",
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, NewTransactionRepository(store).Create(ctx, txn))

	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := NewUserRepository(reopened).FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	txns, err := NewTransactionRepository(reopened).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Salary", txns[0].Category)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temp files must not be left behind")
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, budgetsFile), []byte("{not json"), 0o644))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewTransactionRepository(store)
	userID := uuid.New()

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn := entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.NewFromInt(1), "Food",
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			assert.NoError(t, repo.Create(context.Background(), txn))
		}()
	}
	wg.Wait()

	list, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, writers)
}

func TestMutate_RollsBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	repo := NewBudgetRepository(store)
	userID := uuid.New()

	require.NoError(t, repo.Create(context.Background(), entity.NewBudget(userID, "Food", decimal.NewFromInt(10))))

	// a directory where the data file should be makes the rename fail
	require.NoError(t, os.Remove(filepath.Join(dir, budgetsFile)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, budgetsFile), 0o755))

	err = repo.Create(context.Background(), entity.NewBudget(userID, "Rent", decimal.NewFromInt(10)))
	assert.Error(t, err)

	list, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
