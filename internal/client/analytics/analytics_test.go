package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

func txn(id, typ, amount, category, date string) api.Transaction {
	return api.Transaction{
		ID:       id,
		Type:     typ,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}
}

func budget(id, name, limit string, threshold int) api.Budget {
	return api.Budget{ID: id, Name: name, Limit: decimal.RequireFromString(limit), AlertThreshold: threshold}
}

func ptr(s string) *string { return &s }

func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]api.Transaction{
		txn("1", "income", "1000", "Salary", "2024-01-01"),
		txn("2", "expense", "50.25", "Groceries", "2024-01-02"),
		txn("3", "expense", "20", "Fuel", "2024-01-03"),
	})
	decEq(t, "1000", s.Income)
	decEq(t, "70.25", s.Expenses)
	decEq(t, "929.75", s.Savings)
	assert.Equal(t, 3, s.Count)

	empty := Summarize(nil)
	assert.True(t, empty.Savings.IsZero())
}

func TestExpensesByCategory(t *testing.T) {
	got := ExpensesByCategory([]api.Transaction{
		txn("1", "expense", "30", "Fuel", "2024-01-01"),
		txn("2", "expense", "50", "Groceries", "2024-01-02"),
		txn("3", "income", "500", "Salary", "2024-01-03"),
		txn("4", "expense", "20", "Groceries", "2024-01-04"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Groceries", got[0].Category)
	decEq(t, "70", got[0].Amount)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 70.0, got[0].Share, 0.001)
	assert.Equal(t, "Fuel", got[1].Category)
	assert.InDelta(t, 30.0, got[1].Share, 0.001)
}

func TestMonthlySeries(t *testing.T) {
	got := MonthlySeries([]api.Transaction{
		txn("1", "expense", "40", "Food", "2024-03-10"),
		txn("2", "income", "100", "Salary", "2024-01-31"),
		txn("3", "expense", "25", "Food", "2024-01-02"),
		txn("4", "expense", "5", "Food", "not-a-date"),
		txn("5", "income", "10", "Gift", "2023-12-24"),
	})

	require.Len(t, got, 3)
	labels := []string{got[0].Label, got[1].Label, got[2].Label}
	assert.Equal(t, []string{"Dec 2023", "Jan 2024", "Mar 2024"}, labels)
	decEq(t, "100", got[1].Income)
	decEq(t, "25", got[1].Expenses)
	decEq(t, "75", got[1].Savings)
	decEq(t, "-40", got[2].Savings)
}

func TestCompareCategories(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	got := CompareCategories([]api.Transaction{
		txn("1", "expense", "150", "Food", "2024-03-02"),
		txn("2", "expense", "100", "Food", "2024-02-20"),
		txn("3", "expense", "30", "Fuel", "2024-03-05"),
		txn("4", "expense", "80", "Rent", "2024-02-01"),
		txn("5", "expense", "999", "Food", "2024-01-10"),
		txn("6", "income", "500", "Food", "2024-03-01"),
	}, now)

	require.Len(t, got, 3)

	assert.Equal(t, "Food", got[0].Category)
	decEq(t, "150", got[0].Current)
	decEq(t, "100", got[0].Previous)
	require.NotNil(t, got[0].ChangePercent)
	assert.InDelta(t, 50.0, *got[0].ChangePercent, 0.001)

	assert.Equal(t, "Fuel", got[1].Category)
	assert.Nil(t, got[1].ChangePercent)

	assert.Equal(t, "Rent", got[2].Category)
	require.NotNil(t, got[2].ChangePercent)
	assert.InDelta(t, -100.0, *got[2].ChangePercent, 0.001)
}

func TestCompareCategories_YearBoundary(t *testing.T) {
	now := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	got := CompareCategories([]api.Transaction{
		txn("1", "expense", "10", "Food", "2023-12-31"),
		txn("2", "expense", "20", "Food", "2024-01-01"),
	}, now)

	require.Len(t, got, 1)
	decEq(t, "20", got[0].Current)
	decEq(t, "10", got[0].Previous)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		percent float64
		want    Level
	}{
		{0, LevelOK},
		{74.99, LevelOK},
		{75, LevelCaution},
		{89.9, LevelCaution},
		{90, LevelWarning},
		{99.99, LevelWarning},
		{100, LevelOver},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.percent), "percent %v", tt.percent)
	}
}

func TestUsagePercent(t *testing.T) {
	assert.Equal(t, 0.0, UsagePercent(decimal.NewFromInt(50), decimal.Zero))
	assert.Equal(t, 50.0, UsagePercent(decimal.NewFromInt(50), decimal.NewFromInt(100)))
	assert.Equal(t, 100.0, UsagePercent(decimal.NewFromInt(250), decimal.NewFromInt(100)))
}

func TestBudgetProgress_ByName(t *testing.T) {
	budgets := []api.Budget{
		budget("b1", "Groceries", "100", 80),
		budget("b2", "Fuel", "50", 80),
		budget("b3", "Fun", "0", 80),
	}
	txns := []api.Transaction{
		txn("1", "expense", "85", "Groceries", "2024-01-01"),
		txn("2", "expense", "60", "Fuel", "2024-01-01"),
		txn("3", "income", "60", "Fuel", "2024-01-01"),
		txn("4", "expense", "10", "Fun", "2024-01-01"),
	}

	o := BudgetProgress(budgets, txns, MatchByName)
	require.Len(t, o.Budgets, 3)

	g := o.Budgets[0]
	decEq(t, "85", g.Spent)
	decEq(t, "15", g.Remaining)
	assert.Equal(t, 85.0, g.Percent)
	assert.Equal(t, LevelCaution, g.Level)
	assert.True(t, g.Alerting)

	f := o.Budgets[1]
	decEq(t, "-10", f.Remaining)
	assert.Equal(t, 100.0, f.Percent)
	assert.Equal(t, LevelOver, f.Level)

	z := o.Budgets[2]
	decEq(t, "10", z.Spent)
	assert.Equal(t, 0.0, z.Percent)
	assert.False(t, z.Alerting)

	require.Len(t, o.Alerts, 2)
	decEq(t, "150", o.TotalBudget)
	decEq(t, "155", o.TotalSpent)
	decEq(t, "-5", o.TotalRemaining)
	assert.Equal(t, 100.0, o.Percent)
}

func TestBudgetProgress_ByBudgetID(t *testing.T) {
	budgets := []api.Budget{budget("b1", "Food", "200", 90)}
	linked := txn("1", "expense", "40", "Dinner", "2024-01-01")
	linked.BudgetID = ptr("b1")
	unlinked := txn("2", "expense", "70", "Food", "2024-01-01")

	byID := BudgetProgress(budgets, []api.Transaction{linked, unlinked}, MatchByBudgetID)
	decEq(t, "40", byID.Budgets[0].Spent)
	assert.False(t, byID.Budgets[0].Alerting)

	byName := BudgetProgress(budgets, []api.Transaction{linked, unlinked}, MatchByName)
	decEq(t, "70", byName.Budgets[0].Spent)
}

func TestBudgetProgress_ByReference(t *testing.T) {
	budgets := []api.Budget{
		budget("b1", "Groceries", "100", 80),
		budget("b2", "Rent", "1000", 80),
	}
	groceries := txn("1", "expense", "50", "Groceries", "2024-01-01")
	rent := txn("2", "expense", "900", "Rent", "2024-01-01")
	rent.BudgetID = ptr("b2")
	// linked elsewhere, so it must not count toward the same-named budget
	moved := txn("3", "expense", "30", "Groceries", "2024-01-02")
	moved.BudgetID = ptr("b2")

	o := BudgetProgress(budgets, []api.Transaction{groceries, rent, moved}, MatchByReference)
	require.Len(t, o.Budgets, 2)
	decEq(t, "50", o.Budgets[0].Spent)
	decEq(t, "930", o.Budgets[1].Spent)
	assert.True(t, o.Budgets[1].Alerting)
	decEq(t, "980", o.TotalSpent)
}

func TestFilterTransactions(t *testing.T) {
	a := txn("a", "expense", "20", "Groceries", "2024-01-05")
	a.Description = "Weekly shop"
	b := txn("b", "income", "900", "Salary", "2024-01-01")
	c := txn("c", "expense", "45", "fuel", "2024-01-09")
	c.Description = "Shell station"
	all := []api.Transaction{a, b, c}

	ids := func(txns []api.Transaction) []string {
		out := make([]string, len(txns))
		for i, t := range txns {
			out[i] = t.ID
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default sorts newest first", Filter{}, []string{"c", "a", "b"}},
		{"all is no filter", Filter{Category: All, Type: All, SortBy: SortByDate}, []string{"c", "a", "b"}},
		{"search description ignores case", Filter{Search: "SHOP"}, []string{"a"}},
		{"search category", Filter{Search: "sal"}, []string{"b"}},
		{"search matches both", Filter{Search: "s"}, []string{"c", "a", "b"}},
		{"type", Filter{Type: "expense"}, []string{"c", "a"}},
		{"category exact", Filter{Category: "Groceries"}, []string{"a"}},
		{"amount desc", Filter{SortBy: SortByAmount}, []string{"b", "c", "a"}},
		{"category asc", Filter{SortBy: SortByCategory}, []string{"c", "a", "b"}},
		{"no match", Filter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterTransactions(all, tt.filter)))
		})
	}

	assert.Equal(t, "a", all[0].ID)
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Type: "income", SortBy: SortByAmount}.Validate())
	assert.NoError(t, Filter{}.Validate())
	assert.Error(t, Filter{Type: "transfer"}.Validate())
	assert.Error(t, Filter{SortBy: "name"}.Validate())
}

func TestCategories(t *testing.T) {
	got := Categories([]api.Transaction{
		txn("1", "expense", "1", "B", "2024-01-01"),
		txn("2", "expense", "1", "A", "2024-01-01"),
		txn("3", "expense", "1", "B", "2024-01-01"),
	})
	assert.Equal(t, []string{"B", "A"}, got)
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	txns := []api.Transaction{txn("1", "expense", "50", "Groceries", "2024-01-01")}
	budgets := []api.Budget{budget("b1", "Groceries", "100", 80)}

	d := BuildDashboard(api.Profile{Name: "Alice"}, txns, budgets, now)
	assert.Equal(t, "Alice", d.Profile.Name)
	decEq(t, "50", d.Summary.Expenses)
	require.Len(t, d.Budgets.Budgets, 1)
	decEq(t, "50", d.Budgets.Budgets[0].Spent)
	require.Len(t, d.Monthly, 1)
	assert.Equal(t, "Jan 2024", d.Monthly[0].Label)
	require.Len(t, d.Comparison, 1)
	assert.Len(t, d.Recent, 1)

	after := BuildDashboard(api.Profile{}, nil, budgets, now)
	assert.True(t, after.Budgets.Budgets[0].Spent.IsZero())
}
