package docstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/budget-api/internal/application/adapter/adaptertest"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test"), srv
}

func TestRepositories(t *testing.T) {
	adaptertest.RunContract(t, func(t *testing.T) adaptertest.Repositories {
		store, _ := newTestStore(t)
		return adaptertest.Repositories{
			Users:        NewUserRepository(store),
			Transactions: NewTransactionRepository(store),
			Budgets:      NewBudgetRepository(store),
		}
	})
}

func TestKeyLayout(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()

	user := entity.NewUser("a@x.io", "A", "hash")
	require.NoError(t, NewUserRepository(store).Create(ctx, user))
	budget := entity.NewBudget(user.ID, "Food", decimal.NewFromInt(100))
	require.NoError(t, NewBudgetRepository(store).Create(ctx, budget))

	assert.True(t, srv.Exists("test:users"))
	assert.Equal(t, user.ID.String(), srv.HGet("test:users:email", "a@x.io"))
	assert.True(t, srv.Exists("test:budgets:"+user.ID.String()))
}

func TestUpdateUser_MovesEmailIndex(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()
	repo := NewUserRepository(store)

	user := entity.NewUser("old@x.io", "A", "hash")
	require.NoError(t, repo.Create(ctx, user))

	user.Email = "new@x.io"
	require.NoError(t, repo.Update(ctx, user))

	assert.Equal(t, "", srv.HGet("test:users:email", "old@x.io"))
	assert.Equal(t, user.ID.String(), srv.HGet("test:users:email", "new@x.io"))

	other := entity.NewUser("old@x.io", "B", "hash")
	assert.NoError(t, repo.Create(ctx, other), "the released email can be claimed again")
}

func TestConcurrentRegistrationsClaimEmailOnce(t *testing.T) {
	store, _ := newTestStore(t)
	repo := NewUserRepository(store)

	const attempts = 10
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		dups int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(context.Background(), entity.NewUser("race@x.io", "R", "hash"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, domainerror.ErrEmailAlreadyExists):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, dups)
}

func TestDeleteWithReassignment_UnlinksWithoutRelinks(t *testing.T) {
	store, srv := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()
	budgets := NewBudgetRepository(store)
	txns := NewTransactionRepository(store)

	b := entity.NewBudget(userID, "Food", decimal.NewFromInt(100))
	require.NoError(t, budgets.Create(ctx, b))
	txn := entity.NewTransaction(userID, entity.TransactionTypeExpense, decimal.NewFromInt(5), "Food",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	txn.BudgetID = &b.ID
	require.NoError(t, txns.Create(ctx, txn))

	require.NoError(t, budgets.DeleteWithReassignment(ctx, &entity.BudgetRemoval{UserID: userID, BudgetID: b.ID}))

	assert.Equal(t, "", srv.HGet("test:budgets:"+userID.String(), b.ID.String()))
	got, err := txns.FindByIDAndUser(ctx, txn.ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got.BudgetID)
}
