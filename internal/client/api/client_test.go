package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken("tok"))
	txns, err := c.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.Equal(t, "Bearer tok", gotAuth)

	_, err = c.With(WithToken("")).ListBudgets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorCarriesServerMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{"error field", http.StatusConflict, `{"error":"User already exists","code":"AUTH-010001"}`, "User already exists", "AUTH-010001"},
		{"message field", http.StatusBadRequest, `{"message":"Missing fields"}`, "Missing fields", ""},
		{"no body", http.StatusBadGateway, ``, "Bad Gateway", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Register(context.Background(), "n", "e@x.com", "pw")
			require.Error(t, err)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestClient_UnauthorizedHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"Token expired","code":"AUTH-030002"}`)
	}))
	defer srv.Close()

	var calls int32
	c := New(srv.URL, WithUnauthorizedHandler(func() { atomic.AddInt32(&calls, 1) }))
	_, err := c.GetProfile(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_TransactionPatchBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/transactions/t1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id":"t1","amount":3.5,"date":"2024-01-02","budgetId":null}`)
	}))
	defer srv.Close()

	note := "lunch"
	amount := decimal.RequireFromString("3.5")
	txn, err := New(srv.URL).UpdateTransaction(context.Background(), "t1", TransactionPatch{
		Note:        &note,
		Amount:      &amount,
		ClearBudget: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "lunch", got["note"])
	assert.Equal(t, "3.5", got["amount"])
	v, present := got["budgetId"]
	assert.True(t, present)
	assert.Nil(t, v)
	assert.NotContains(t, got, "category")

	assert.True(t, txn.Amount.Equal(amount))
	assert.Nil(t, txn.BudgetID)
}

func TestClient_DeleteBudgetQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"success":true,"reassigned":0,"createdBudgets":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.DeleteBudget(context.Background(), "b1", false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "reassign=false", gotQuery)

	_, err = c.DeleteBudget(context.Background(), "b1", true)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_FetchAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u1","name":"Ann","email":"a@b.com"}`)
	})
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"t1","type":"expense","amount":10,"category":"Food","date":"2024-03-01"}]`)
	})
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	snap, err := New(srv.URL).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", snap.Profile.Name)
	require.Len(t, snap.Transactions, 1)
	assert.True(t, snap.Transactions[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.NotNil(t, snap.Budgets)
}

func TestClient_FetchAllFailsFast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"User not found"}`)
	})
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/api/budgets", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(srv.URL).FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "User not found", err.Error())
}
