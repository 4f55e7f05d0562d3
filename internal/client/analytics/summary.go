package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

// Summary holds the headline totals.
type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
	Count    int             `json:"count"`
}

// Summarize totals income and expenses. Savings is income minus expenses.
func Summarize(txns []api.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range txns {
		switch {
		case t.IsIncome():
			s.Income = s.Income.Add(t.Amount)
		case t.IsExpense():
			s.Expenses = s.Expenses.Add(t.Amount)
		}
		s.Count++
	}
	s.Savings = s.Income.Sub(s.Expenses)
	return s
}

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    float64         `json:"share"`
	Count    int             `json:"count"`
}

// ExpensesByCategory groups expenses by category, largest first. Share is the
// category's percentage of all expenses.
func ExpensesByCategory(txns []api.Transaction) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	total := decimal.Zero

	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(t.Amount)
		out[i].Count++
		total = total.Add(t.Amount)
	}

	for i := range out {
		out[i].Share = percentOf(out[i].Amount, total)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthPoint is one calendar month of the income/expense series.
type MonthPoint struct {
	Month    time.Time       `json:"month"`
	Label    string          `json:"label"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}

// MonthlySeries groups transactions by calendar month, oldest first. Months
// without transactions are omitted; records with an unreadable date are skipped.
func MonthlySeries(txns []api.Transaction) []MonthPoint {
	months := make(map[time.Time]*MonthPoint)
	for _, t := range txns {
		day, ok := t.Day()
		if !ok {
			continue
		}
		key := monthStart(day)
		p, ok := months[key]
		if !ok {
			p = &MonthPoint{Month: key, Label: MonthLabel(key), Income: decimal.Zero, Expenses: decimal.Zero}
			months[key] = p
		}
		switch {
		case t.IsIncome():
			p.Income = p.Income.Add(t.Amount)
		case t.IsExpense():
			p.Expenses = p.Expenses.Add(t.Amount)
		}
	}

	out := make([]MonthPoint, 0, len(months))
	for _, p := range months {
		p.Savings = p.Income.Sub(p.Expenses)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// CategoryChange compares one category's expenses across two calendar months.
// ChangePercent is nil when the previous month had no spending.
type CategoryChange struct {
	Category      string          `json:"category"`
	Current       decimal.Decimal `json:"current"`
	Previous      decimal.Decimal `json:"previous"`
	ChangePercent *float64        `json:"changePercent"`
}

// CompareCategories compares expenses in the calendar month containing now with
// the month before it. Categories with spending in neither month are omitted.
// Rows are ordered by current spending, largest first.
func CompareCategories(txns []api.Transaction, now time.Time) []CategoryChange {
	current := monthStart(now)
	previous := current.AddDate(0, -1, 0)

	index := make(map[string]int)
	out := make([]CategoryChange, 0)
	row := func(category string) *CategoryChange {
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, CategoryChange{Category: category, Current: decimal.Zero, Previous: decimal.Zero})
		}
		return &out[i]
	}

	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		day, ok := t.Day()
		if !ok {
			continue
		}
		switch monthStart(day) {
		case current:
			r := row(t.Category)
			r.Current = r.Current.Add(t.Amount)
		case previous:
			r := row(t.Category)
			r.Previous = r.Previous.Add(t.Amount)
		}
	}

	for i := range out {
		if out[i].Previous.IsZero() {
			continue
		}
		change := percentOf(out[i].Current.Sub(out[i].Previous), out[i].Previous)
		out[i].ChangePercent = &change
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Current.Cmp(out[j].Current); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
