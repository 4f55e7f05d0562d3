package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
	"github.com/finance-tracker/budget-api/internal/domain/entity"
	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/filestore"
)

type fixture struct {
	txns    adapter.TransactionRepository
	budgets adapter.BudgetRepository
	create  *CreateTransactionUseCase
	update  *UpdateTransactionUseCase
	remove  *DeleteTransactionUseCase
	list    *ListTransactionsUseCase
}

func newFixture() *fixture {
	store := filestore.NewMemory()
	txns := filestore.NewTransactionRepository(store)
	budgets := filestore.NewBudgetRepository(store)
	return &fixture{
		txns:    txns,
		budgets: budgets,
		create:  NewCreateTransactionUseCase(txns, budgets),
		update:  NewUpdateTransactionUseCase(txns, budgets),
		remove:  NewDeleteTransactionUseCase(txns),
		list:    NewListTransactionsUseCase(txns),
	}
}

func txnCode(err error) domainerror.TransactionErrorCode {
	var tErr *domainerror.TransactionError
	if errors.As(err, &tErr) {
		return tErr.Code
	}
	return ""
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptr[T any](v T) *T { return &v }

func validInput(userID uuid.UUID) CreateTransactionInput {
	return CreateTransactionInput{
		UserID:   userID,
		Type:     "expense",
		Amount:   dec("12.50"),
		Category: "Food",
		Date:     "2024-03-10",
	}
}

func TestCreateTransaction(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	budget := entity.NewBudget(userID, "Food", decimal.NewFromInt(100))
	if err := f.budgets.Create(context.Background(), budget); err != nil {
		t.Fatal(err)
	}
	foreignBudget := entity.NewBudget(uuid.New(), "Food", decimal.NewFromInt(100))
	if err := f.budgets.Create(context.Background(), foreignBudget); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		mutate   func(*CreateTransactionInput)
		wantCode domainerror.TransactionErrorCode
	}{
		{name: "valid", mutate: func(*CreateTransactionInput) {}},
		{name: "rfc3339 date", mutate: func(in *CreateTransactionInput) { in.Date = "2024-03-10T15:04:05Z" }},
		{name: "own budget", mutate: func(in *CreateTransactionInput) { in.BudgetID = budget.ID.String() }},
		{name: "missing amount", mutate: func(in *CreateTransactionInput) { in.Amount = nil }, wantCode: domainerror.ErrCodeMissingTransactionFields},
		{name: "missing type", mutate: func(in *CreateTransactionInput) { in.Type = "" }, wantCode: domainerror.ErrCodeMissingTransactionFields},
		{name: "missing category", mutate: func(in *CreateTransactionInput) { in.Category = " " }, wantCode: domainerror.ErrCodeMissingTransactionFields},
		{name: "missing date", mutate: func(in *CreateTransactionInput) { in.Date = "" }, wantCode: domainerror.ErrCodeMissingTransactionFields},
		{name: "unknown type", mutate: func(in *CreateTransactionInput) { in.Type = "transfer" }, wantCode: domainerror.ErrCodeInvalidTransactionType},
		{name: "zero amount", mutate: func(in *CreateTransactionInput) { in.Amount = dec("0") }, wantCode: domainerror.ErrCodeInvalidTransactionAmount},
		{name: "negative amount", mutate: func(in *CreateTransactionInput) { in.Amount = dec("-3") }, wantCode: domainerror.ErrCodeInvalidTransactionAmount},
		{name: "bad date", mutate: func(in *CreateTransactionInput) { in.Date = "10/03/2024" }, wantCode: domainerror.ErrCodeInvalidTransactionDate},
		{name: "someone else's budget", mutate: func(in *CreateTransactionInput) { in.BudgetID = foreignBudget.ID.String() }, wantCode: domainerror.ErrCodeTxnBudgetNotFound},
		{name: "malformed budget id", mutate: func(in *CreateTransactionInput) { in.BudgetID = "abc" }, wantCode: domainerror.ErrCodeTxnBudgetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(userID)
			tt.mutate(&input)

			got, err := f.create.Execute(context.Background(), input)
			if tt.wantCode != "" {
				if code := txnCode(err); code != tt.wantCode {
					t.Fatalf("code = %q (err %v), want %q", code, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !got.Date.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
				t.Errorf("Date = %v", got.Date)
			}
			if got.Note != "" || got.Tags == nil || len(got.Tags) != 0 {
				t.Errorf("defaults not applied: note=%q tags=%v", got.Note, got.Tags)
			}
			if input.BudgetID == "" && got.BudgetID != nil {
				t.Errorf("BudgetID = %v, want nil", got.BudgetID)
			}
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := uuid.New()
	budget := entity.NewBudget(userID, "Food", decimal.NewFromInt(100))
	if err := f.budgets.Create(ctx, budget); err != nil {
		t.Fatal(err)
	}

	input := validInput(userID)
	input.Note = "keep me"
	input.BudgetID = budget.ID.String()
	created, err := f.create.Execute(ctx, input)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("partial merge", func(t *testing.T) {
		got, err := f.update.Execute(ctx, UpdateTransactionInput{
			TransactionID: created.ID,
			UserID:        userID,
			Amount:        dec("20"),
			Tags:          ptr([]string{" a ", ""}),
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !got.Amount.Equal(decimal.NewFromInt(20)) || got.Note != "keep me" || got.Category != "Food" {
			t.Errorf("unexpected record %+v", got)
		}
		if len(got.Tags) != 1 || got.Tags[0] != "a" {
			t.Errorf("Tags = %v", got.Tags)
		}
		if got.BudgetID == nil || *got.BudgetID != budget.ID {
			t.Errorf("BudgetID changed without being supplied")
		}
	})

	t.Run("null budget clears the link", func(t *testing.T) {
		got, err := f.update.Execute(ctx, UpdateTransactionInput{
			TransactionID: created.ID,
			UserID:        userID,
			Budget:        BudgetRef{Set: true},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if got.BudgetID != nil {
			t.Errorf("BudgetID = %v, want nil", got.BudgetID)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateTransactionInput{TransactionID: created.ID, UserID: userID, Type: ptr("gift")})
		if txnCode(err) != domainerror.ErrCodeInvalidTransactionType {
			t.Errorf("code = %q", txnCode(err))
		}
	})

	t.Run("other user sees not found", func(t *testing.T) {
		_, err := f.update.Execute(ctx, UpdateTransactionInput{TransactionID: created.ID, UserID: uuid.New(), Note: ptr("x")})
		if txnCode(err) != domainerror.ErrCodeTransactionNotFound {
			t.Errorf("code = %q", txnCode(err))
		}
		stored, _ := f.txns.FindByIDAndUser(ctx, created.ID, userID)
		if stored.Note != "keep me" {
			t.Errorf("foreign update leaked: note = %q", stored.Note)
		}
	})
}

func TestDeleteAndList(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := uuid.New()

	first, err := f.create.Execute(ctx, validInput(userID))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.create.Execute(ctx, validInput(userID)); err != nil {
		t.Fatal(err)
	}

	if err := f.remove.Execute(ctx, first.ID, uuid.New()); txnCode(err) != domainerror.ErrCodeTransactionNotFound {
		t.Errorf("foreign delete code = %q", txnCode(err))
	}
	if err := f.remove.Execute(ctx, first.ID, userID); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := f.remove.Execute(ctx, first.ID, userID); txnCode(err) != domainerror.ErrCodeTransactionNotFound {
		t.Errorf("second delete code = %q", txnCode(err))
	}

	list, err := f.list.Execute(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}
}
