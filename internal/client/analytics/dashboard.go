package analytics

import (
	"time"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

// recentLimit is how many transactions the dashboard lists.
const recentLimit = 5

// Dashboard is everything the dashboard and analytics views render.
type Dashboard struct {
	Profile     api.Profile       `json:"profile"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Summary     Summary           `json:"summary"`
	Categories  []CategoryTotal   `json:"categories"`
	Monthly     []MonthPoint      `json:"monthly"`
	Comparison  []CategoryChange  `json:"comparison"`
	Budgets     BudgetOverview    `json:"budgets"`
	Recent      []api.Transaction `json:"recent"`
}

// BuildDashboard composes the derived figures for one snapshot of the user's
// data. Budget spending uses MatchByReference.
func BuildDashboard(profile api.Profile, txns []api.Transaction, budgets []api.Budget, now time.Time) Dashboard {
	recent := FilterTransactions(txns, Filter{SortBy: SortByDate})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return Dashboard{
		Profile:     profile,
		GeneratedAt: now,
		Summary:     Summarize(txns),
		Categories:  ExpensesByCategory(txns),
		Monthly:     MonthlySeries(txns),
		Comparison:  CompareCategories(txns, now),
		Budgets:     BudgetProgress(budgets, txns, MatchByReference),
		Recent:      recent,
	}
}
