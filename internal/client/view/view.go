package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finance-tracker/budget-api/internal/client/analytics"
	"github.com/finance-tracker/budget-api/internal/client/api"
)

// Summary renders the income, expense and savings cards.
func (r *Renderer) Summary(s analytics.Summary) string {
	savings := r.savings
	if s.Savings.IsNegative() {
		savings = r.expense
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		r.card.Render("Total Income\n"+r.income.Render(r.money(s.Income))),
		r.card.Render("Total Expenses\n"+r.expense.Render(r.money(s.Expenses))),
		r.card.Render("Net Savings\n"+savings.Render(r.money(s.Savings))),
	)
}

// Categories renders expense totals per category with their share.
func (r *Renderer) Categories(rows []analytics.CategoryTotal) string {
	if len(rows) == 0 {
		return r.section("Expenses by category", r.muted.Render("No expenses yet."))
	}
	lines := make([]string, 0, len(rows))
	for _, c := range rows {
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			pad(truncate(c.Category, 16), 16),
			padLeft(r.money(c.Amount), 12),
			r.expense.Render(bar(c.Share)),
			padLeft(r.percent(c.Share), 6),
		))
	}
	return r.section("Expenses by category", lines...)
}

// Monthly renders the per-month income, expense and savings series.
func (r *Renderer) Monthly(points []analytics.MonthPoint) string {
	if len(points) == 0 {
		return r.section("Monthly overview", r.muted.Render("No transactions yet."))
	}
	lines := []string{r.muted.Render(fmt.Sprintf("%-9s %12s %12s %12s", "Month", "Income", "Expenses", "Savings"))}
	for _, p := range points {
		savings := r.savings
		if p.Savings.IsNegative() {
			savings = r.expense
		}
		lines = append(lines, fmt.Sprintf("%-9s %s %s %s",
			p.Label,
			r.income.Render(padLeft(r.money(p.Income), 12)),
			r.expense.Render(padLeft(r.money(p.Expenses), 12)),
			savings.Render(padLeft(r.money(p.Savings), 12)),
		))
	}
	return r.section("Monthly overview", lines...)
}

// Comparison renders this month's spending per category against last month.
func (r *Renderer) Comparison(rows []analytics.CategoryChange) string {
	if len(rows) == 0 {
		return r.section("This month vs last month", r.muted.Render("No spending in either month."))
	}
	lines := make([]string, 0, len(rows))
	for _, c := range rows {
		change := r.muted.Render("N/A")
		if c.ChangePercent != nil {
			style := r.income
			if *c.ChangePercent > 0 {
				style = r.expense
			}
			change = style.Render(fmt.Sprintf("%+.0f%%", *c.ChangePercent))
		}
		lines = append(lines, fmt.Sprintf("%s this month %s  last month %s  %s",
			pad(truncate(c.Category, 16), 16),
			padLeft(r.money(c.Current), 12),
			padLeft(r.money(c.Previous), 12),
			change,
		))
	}
	return r.section("This month vs last month", lines...)
}

// Budgets renders the totals, one progress card per budget and the alerts.
func (r *Renderer) Budgets(o analytics.BudgetOverview) string {
	totals := lipgloss.JoinHorizontal(lipgloss.Top,
		r.card.Render("Total Budget\n"+r.savings.Render(r.money(o.TotalBudget))),
		r.card.Render("Total Spent\n"+r.expense.Render(r.money(o.TotalSpent))),
		r.card.Render("Remaining\n"+r.income.Render(r.money(o.TotalRemaining))),
	)
	overall := fmt.Sprintf("Overall %s %s", r.levelStyle(analytics.LevelFor(o.Percent)).Render(bar(o.Percent)), r.percent(o.Percent))

	if len(o.Budgets) == 0 {
		return r.section("Budgets", totals, overall, r.muted.Render("No budgets yet."))
	}

	cards := make([]string, 0, len(o.Budgets))
	for _, st := range o.Budgets {
		cards = append(cards, r.budgetCard(st))
	}

	parts := []string{totals, overall}
	parts = append(parts, cards...)
	parts = append(parts, r.alerts(o.Alerts))
	return r.section("Budgets", parts...)
}

func (r *Renderer) budgetCard(st analytics.BudgetStatus) string {
	b := st.Budget
	name := r.lg.NewStyle().Bold(true)
	if b.Color != "" {
		name = name.Foreground(lipgloss.Color(b.Color))
	}
	remaining := r.income
	if st.Remaining.IsNegative() {
		remaining = r.expense
	}
	level := r.levelStyle(st.Level)

	header := fmt.Sprintf("%s %s", b.Icon, name.Render(b.Name))
	if st.Alerting {
		header += " " + level.Render("⚠")
	}
	body := strings.Join([]string{
		header,
		fmt.Sprintf("Spent %s of %s", r.money(st.Spent), r.money(b.Limit)),
		"Remaining " + remaining.Render(r.money(st.Remaining)),
		fmt.Sprintf("%s %s", level.Render(bar(st.Percent)), r.percent(st.Percent)),
		r.muted.Render(fmt.Sprintf("id %s  alert at %d%%", b.ID, b.AlertThreshold)),
	}, "\n")
	return r.card.Render(body)
}

func (r *Renderer) alerts(alerts []analytics.BudgetStatus) string {
	if len(alerts) == 0 {
		return r.section("Alerts", r.income.Render("All budgets are within their alert thresholds."))
	}
	lines := make([]string, 0, len(alerts))
	for _, st := range alerts {
		msg := "Approaching limit"
		if st.Level == analytics.LevelOver {
			msg = "Over budget!"
		}
		lines = append(lines, r.levelStyle(st.Level).Render(fmt.Sprintf("%s %s: %s / %s (%s used)",
			msg, st.Budget.Name, r.money(st.Spent), r.money(st.Budget.Limit), r.percent(st.Percent))))
	}
	return r.section("Alerts", lines...)
}

// Transactions renders a transaction table.
func (r *Renderer) Transactions(txns []api.Transaction) string {
	if len(txns) == 0 {
		return r.section("Transactions", r.muted.Render("No transactions found."))
	}
	lines := []string{r.muted.Render(fmt.Sprintf("%-10s %-16s %-24s %12s  %s", "Date", "Category", "Description", "Amount", "ID"))}
	for _, t := range txns {
		amount := padLeft("+"+r.money(t.Amount), 12)
		style := r.income
		if t.IsExpense() {
			amount = padLeft("-"+r.money(t.Amount), 12)
			style = r.expense
		}
		line := fmt.Sprintf("%-10s %s %s %s  %s",
			t.Date,
			pad(truncate(t.Category, 16), 16),
			pad(truncate(t.Description, 24), 24),
			style.Render(amount),
			r.muted.Render(t.ID),
		)
		if len(t.Tags) > 0 {
			line += " " + r.muted.Render("#"+strings.Join(t.Tags, " #"))
		}
		lines = append(lines, line)
	}
	return r.section("Transactions", lines...)
}

// TransactionTotals renders the income, expense and net figures of a list.
func (r *Renderer) TransactionTotals(s analytics.Summary) string {
	return fmt.Sprintf("%d transactions  income %s  expenses %s  net %s",
		s.Count,
		r.income.Render(r.money(s.Income)),
		r.expense.Render(r.money(s.Expenses)),
		r.savings.Render(r.money(s.Savings)),
	)
}

// Profile renders the profile card.
func (r *Renderer) Profile(p api.Profile) string {
	field := func(label, value string) string {
		if value == "" {
			value = r.muted.Render("-")
		}
		return r.muted.Render(pad(label, 9)) + value
	}
	avatar := "not set"
	if p.Avatar != "" {
		avatar = truncate(p.Avatar, 40)
	}
	return r.card.Render(strings.Join([]string{
		r.title.Render(p.Name),
		field("Email", p.Email),
		field("Phone", p.Phone),
		field("Location", p.Location),
		field("Avatar", avatar),
		field("ID", p.ID),
	}, "\n"))
}

// Dashboard renders the landing view: totals, budget alerts and recent activity.
func (r *Renderer) Dashboard(d analytics.Dashboard) string {
	greeting := r.title.Render("Welcome back, " + d.Profile.Name)
	return strings.Join([]string{
		greeting,
		r.Summary(d.Summary),
		r.alerts(d.Budgets.Alerts),
		r.Transactions(d.Recent),
	}, "\n\n")
}

// Analytics renders the analytics view.
func (r *Renderer) Analytics(d analytics.Dashboard) string {
	return strings.Join([]string{
		r.Summary(d.Summary),
		r.Categories(d.Categories),
		r.Monthly(d.Monthly),
		r.Comparison(d.Comparison),
	}, "\n\n")
}

// Error renders err for the user. API errors show the server's message as is.
func (r *Renderer) Error(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return r.errText.Render("Error: " + apiErr.Message)
	}
	return r.errText.Render("Error: " + err.Error())
}
