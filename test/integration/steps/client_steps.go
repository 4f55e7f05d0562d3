package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/client/analytics"
	"github.com/finance-tracker/budget-api/internal/client/api"
	"github.com/finance-tracker/budget-api/internal/client/session"
	"github.com/finance-tracker/budget-api/test/integration/mock"
)

// registerClientSteps registers steps that drive the client layers.
func registerClientSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the derived spent for budget "([^"]*)" should be "([^"]*)"$`, theDerivedSpentShouldBe)
	ctx.Step(`^the budget "([^"]*)" should be alerting$`, theBudgetShouldBeAlerting)
	ctx.Step(`^the remote API answers "([^"]*)" "([^"]*)" with status (\d+) and body:$`, theRemoteAPIAnswers)
	ctx.Step(`^a stored session with token "([^"]*)" for "([^"]*)"$`, aStoredSession)
	ctx.Step(`^I restore the session$`, iRestoreTheSession)
	ctx.Step(`^the session should be restored for "([^"]*)"$`, theSessionShouldBeRestoredFor)
	ctx.Step(`^the session should be cleared$`, theSessionShouldBeCleared)
	ctx.Step(`^the remote API should have received "([^"]*)" "([^"]*)" with header "([^"]*)" set to "([^"]*)"$`, theRemoteAPIShouldHaveReceived)
}

// overview fetches everything as the current user and derives budget progress.
func (tc *TestContext) overview(ctx context.Context) (analytics.BudgetOverview, error) {
	client := api.New(tc.server.URL, api.WithToken(tc.accessToken))
	snap, err := client.FetchAll(ctx)
	if err != nil {
		return analytics.BudgetOverview{}, err
	}
	return analytics.BudgetProgress(snap.Budgets, snap.Transactions, analytics.MatchByReference), nil
}

func findBudget(o analytics.BudgetOverview, name string) (analytics.BudgetStatus, error) {
	for _, st := range o.Budgets {
		if st.Budget.Name == name {
			return st, nil
		}
	}
	return analytics.BudgetStatus{}, fmt.Errorf("budget %q not found", name)
}

func theDerivedSpentShouldBe(ctx context.Context, name, expected string) error {
	tc := GetTestContext(ctx)
	o, err := tc.overview(ctx)
	if err != nil {
		return err
	}
	st, err := findBudget(o, name)
	if err != nil {
		return err
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !st.Spent.Equal(want) {
		return fmt.Errorf("budget %q spent %s, expected %s", name, st.Spent, want)
	}
	return nil
}

func theBudgetShouldBeAlerting(ctx context.Context, name string) error {
	tc := GetTestContext(ctx)
	o, err := tc.overview(ctx)
	if err != nil {
		return err
	}
	st, err := findBudget(o, name)
	if err != nil {
		return err
	}
	if !st.Alerting {
		return fmt.Errorf("budget %q at %.1f%% is not alerting (threshold %d)", name, st.Percent, st.Budget.AlertThreshold)
	}
	return nil
}

// remoteAPI starts the stand-in API on first use.
func (tc *TestContext) remoteAPI() *mock.ApiMock {
	if tc.remote == nil {
		tc.remote = mock.NewApiServer()
		tc.remote.Start()
		tc.sessions = session.NewManager(tc.sessionPath(), api.New(tc.remote.GetUrl()))
	}
	return tc.remote
}

func theRemoteAPIAnswers(ctx context.Context, method, path string, status int, body *godog.DocString) error {
	var payload any
	if err := json.Unmarshal([]byte(body.Content), &payload); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	GetTestContext(ctx).remoteAPI().SetResponse(method, path, status, payload)
	return nil
}

func aStoredSession(ctx context.Context, token, email string) error {
	tc := GetTestContext(ctx)
	tc.remoteAPI()
	_, err := tc.sessions.Start(&api.AuthResult{Token: token, User: api.User{Email: email}})
	return err
}

func iRestoreTheSession(ctx context.Context) error {
	tc := GetTestContext(ctx)
	tc.remoteAPI()
	s, err := tc.sessions.Restore(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		tc.vars["sessionEmail"] = ""
		return nil
	case err != nil:
		return err
	}
	tc.vars["sessionEmail"] = s.User.Email
	return nil
}

func theSessionShouldBeRestoredFor(ctx context.Context, email string) error {
	tc := GetTestContext(ctx)
	if got := tc.vars["sessionEmail"]; got != email {
		return fmt.Errorf("session restored for %q, expected %q", got, email)
	}
	if _, err := os.Stat(tc.sessionPath()); err != nil {
		return fmt.Errorf("session file missing: %w", err)
	}
	return nil
}

func theSessionShouldBeCleared(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if got := tc.vars["sessionEmail"]; got != "" {
		return fmt.Errorf("session still restored for %q", got)
	}
	if _, err := os.Stat(tc.sessionPath()); !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session file still present")
	}
	return nil
}

func theRemoteAPIShouldHaveReceived(ctx context.Context, method, path, header, value string) error {
	req, ok := GetTestContext(ctx).remoteAPI().GetRequest(method, path, 0)
	if !ok {
		return fmt.Errorf("no %s %s request received", method, path)
	}
	if got := req.Headers[header]; got != value {
		return fmt.Errorf("header %s was %q, expected %q", header, got, value)
	}
	return nil
}
