// Package analytics derives the figures shown by the terminal client from full
// resource lists. Every function is pure: the same inputs give the same view
// model, and nothing is cached between calls.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabel formats a month the way the client labels series points ("Mar 2025").
func MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

// monthStart returns the first day of the month containing t, in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// percentOf returns part/whole*100 rounded to two places. A zero whole gives 0.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	pct, _ := part.Mul(hundred).Div(whole).Round(2).Float64()
	return pct
}

var hundred = decimal.NewFromInt(100)
