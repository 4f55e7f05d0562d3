package api

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates an account and returns its first session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadAvatar stores avatar (a data URL or a plain URL) and returns it.
func (c *Client) UploadAvatar(ctx context.Context, avatar string) (string, error) {
	var out struct {
		Avatar string `json:"avatar"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/profile/avatar", map[string]string{"avatar": avatar}, &out); err != nil {
		return "", err
	}
	return out.Avatar, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/api/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in NewTransaction) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPut, "/api/transactions/"+url.PathEscape(id), patch.body(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListBudgets(ctx context.Context) ([]Budget, error) {
	var out []Budget
	if err := c.do(ctx, http.MethodGet, "/api/budgets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, in NewBudget) (*Budget, error) {
	var out Budget
	if err := c.do(ctx, http.MethodPost, "/api/budgets", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBudget(ctx context.Context, id string, patch BudgetPatch) (*Budget, error) {
	var out Budget
	if err := c.do(ctx, http.MethodPut, "/api/budgets/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBudget removes a budget. With reassign, its linked expenses move to
// per-category budgets; otherwise they are only unlinked.
func (c *Client) DeleteBudget(ctx context.Context, id string, reassign bool) (*DeleteBudgetResult, error) {
	path := "/api/budgets/" + url.PathEscape(id)
	if !reassign {
		path += "?reassign=false"
	}
	var out DeleteBudgetResult
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
