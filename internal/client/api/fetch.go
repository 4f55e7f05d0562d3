package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Snapshot is everything the dashboard and the export need.
type Snapshot struct {
	Profile      *Profile      `json:"profile"`
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
}

// FetchAll loads the profile, transactions and budgets concurrently. The first
// failure cancels the other requests.
func (c *Client) FetchAll(ctx context.Context) (*Snapshot, error) {
	g, ctx := errgroup.WithContext(ctx)
	snap := &Snapshot{}

	g.Go(func() error {
		p, err := c.GetProfile(ctx)
		snap.Profile = p
		return err
	})
	g.Go(func() error {
		txns, err := c.ListTransactions(ctx)
		snap.Transactions = txns
		return err
	})
	g.Go(func() error {
		budgets, err := c.ListBudgets(ctx)
		snap.Budgets = budgets
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if snap.Transactions == nil {
		snap.Transactions = []Transaction{}
	}
	if snap.Budgets == nil {
		snap.Budgets = []Budget{}
	}
	return snap, nil
}
