package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

// MatchMode selects how expenses are attributed to budgets.
type MatchMode int

const (
	// MatchByReference attributes a linked expense only to the budget it
	// references and an unlinked one to the budget named like its category.
	MatchByReference MatchMode = iota
	// MatchByName attributes an expense to every budget named like its category.
	MatchByName
	// MatchByBudgetID attributes an expense to the budget it references.
	MatchByBudgetID
)

// Level grades how much of a budget is used.
type Level string

const (
	LevelOK      Level = "ok"
	LevelCaution Level = "caution"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"
)

// LevelFor grades a usage percentage.
func LevelFor(percent float64) Level {
	switch {
	case percent >= 100:
		return LevelOver
	case percent >= 90:
		return LevelWarning
	case percent >= 75:
		return LevelCaution
	default:
		return LevelOK
	}
}

// BudgetStatus is a budget with its derived spending.
type BudgetStatus struct {
	Budget    api.Budget      `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   float64         `json:"percent"`
	Level     Level           `json:"level"`
	Alerting  bool            `json:"alerting"`
}

// BudgetOverview is the budget page: one status per budget plus totals.
type BudgetOverview struct {
	Budgets        []BudgetStatus  `json:"budgets"`
	Alerts         []BudgetStatus  `json:"alerts"`
	TotalBudget    decimal.Decimal `json:"totalBudget"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	Percent        float64         `json:"percent"`
}

// UsagePercent returns spent as a percentage of limit, capped at 100. A zero
// limit gives 0.
func UsagePercent(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	pct := percentOf(spent, limit)
	if pct > 100 {
		return 100
	}
	return pct
}

// Spent sums the expenses attributed to b.
func Spent(b api.Budget, txns []api.Transaction, mode MatchMode) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range txns {
		if t.IsExpense() && matches(b, t, mode) {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

func matches(b api.Budget, t api.Transaction, mode MatchMode) bool {
	switch mode {
	case MatchByBudgetID:
		return t.BudgetID != nil && *t.BudgetID == b.ID
	case MatchByName:
		return t.Category == b.Name
	default:
		if t.BudgetID != nil {
			return *t.BudgetID == b.ID
		}
		return t.Category == b.Name
	}
}

// BudgetProgress derives spending for every budget, in the given order.
func BudgetProgress(budgets []api.Budget, txns []api.Transaction, mode MatchMode) BudgetOverview {
	o := BudgetOverview{
		Budgets:     make([]BudgetStatus, 0, len(budgets)),
		Alerts:      make([]BudgetStatus, 0),
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
	}

	for _, b := range budgets {
		spent := Spent(b, txns, mode)
		pct := UsagePercent(spent, b.Limit)
		st := BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Remaining: b.Limit.Sub(spent),
			Percent:   pct,
			Level:     LevelFor(pct),
			Alerting:  b.Limit.IsPositive() && pct >= float64(b.AlertThreshold),
		}
		o.Budgets = append(o.Budgets, st)
		if st.Alerting {
			o.Alerts = append(o.Alerts, st)
		}
		o.TotalBudget = o.TotalBudget.Add(b.Limit)
		o.TotalSpent = o.TotalSpent.Add(spent)
	}

	o.TotalRemaining = o.TotalBudget.Sub(o.TotalSpent)
	o.Percent = UsagePercent(o.TotalSpent, o.TotalBudget)
	return o
}
