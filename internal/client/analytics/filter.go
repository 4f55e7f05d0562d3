package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finance-tracker/budget-api/internal/client/api"
)

// All disables a category or type filter.
const All = "all"

// Sort orders accepted by Filter.SortBy.
const (
	SortByDate     = "date"
	SortByAmount   = "amount"
	SortByCategory = "category"
)

// Filter selects and orders transactions for the list view. Empty fields
// behave like All.
type Filter struct {
	Search   string
	Category string
	Type     string
	SortBy   string
}

// Validate rejects unknown type and sort values.
func (f Filter) Validate() error {
	switch f.Type {
	case "", All, "income", "expense":
	default:
		return fmt.Errorf("unknown type %q", f.Type)
	}
	switch f.SortBy {
	case "", SortByDate, SortByAmount, SortByCategory:
	default:
		return fmt.Errorf("unknown sort %q", f.SortBy)
	}
	return nil
}

// FilterTransactions returns the matching transactions in the requested order.
// Search matches description or category, ignoring case. Dates sort newest
// first, amounts largest first and categories alphabetically. The input slice
// is not modified.
func FilterTransactions(txns []api.Transaction, f Filter) []api.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]api.Transaction, 0, len(txns))
	for _, t := range txns {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}
		if f.Category != "" && f.Category != All && t.Category != f.Category {
			continue
		}
		if f.Type != "" && f.Type != All && t.Type != f.Type {
			continue
		}
		out = append(out, t)
	}

	switch f.SortBy {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	case SortByCategory:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
		})
	default:
		// Wire dates are YYYY-MM-DD, so string order is date order.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(txns []api.Transaction) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, t := range txns {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}
