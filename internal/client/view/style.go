// Package view renders the client's view models as terminal text.
package view

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finance-tracker/budget-api/internal/client/analytics"
)

const (
	colorIncome  = "#a6e3a1"
	colorExpense = "#f38ba8"
	colorSavings = "#89b4fa"
	colorMuted   = "#7f849c"
	colorCaution = "#f9e2af"
	colorWarning = "#fab387"

	barWidth = 20
)

// Renderer turns view models into styled strings for one output.
type Renderer struct {
	lg      *lipgloss.Renderer
	numbers *message.Printer

	title   lipgloss.Style
	muted   lipgloss.Style
	income  lipgloss.Style
	expense lipgloss.Style
	savings lipgloss.Style
	card    lipgloss.Style
	errText lipgloss.Style
}

// New returns a renderer whose colour support follows w. Output that is not a
// terminal gets plain text.
func New(w io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(w)
	return &Renderer{
		lg:      lg,
		numbers: message.NewPrinter(language.English),
		title:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color(colorSavings)),
		muted:   lg.NewStyle().Foreground(lipgloss.Color(colorMuted)),
		income:  lg.NewStyle().Foreground(lipgloss.Color(colorIncome)),
		expense: lg.NewStyle().Foreground(lipgloss.Color(colorExpense)),
		savings: lg.NewStyle().Foreground(lipgloss.Color(colorSavings)),
		card: lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorMuted)).
			Padding(0, 1).
			MarginRight(1),
		errText: lg.NewStyle().Bold(true).Foreground(lipgloss.Color(colorExpense)),
	}
}

// money formats an amount with two decimals and thousands separators.
func (r *Renderer) money(d decimal.Decimal) string {
	return r.numbers.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (r *Renderer) percent(p float64) string {
	return r.numbers.Sprintf("%.1f%%", p)
}

func (r *Renderer) levelStyle(l analytics.Level) lipgloss.Style {
	switch l {
	case analytics.LevelOver:
		return r.expense
	case analytics.LevelWarning:
		return r.lg.NewStyle().Foreground(lipgloss.Color(colorWarning))
	case analytics.LevelCaution:
		return r.lg.NewStyle().Foreground(lipgloss.Color(colorCaution))
	default:
		return r.income
	}
}

// bar draws a fixed-width gauge filled to percent (0..100).
func bar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent/100*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// truncate shortens s to n display cells.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// pad right-pads s to n display cells.
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// padLeft left-pads s to n display cells.
func padLeft(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return strings.Repeat(" ", n-w) + s
	}
	return s
}

func (r *Renderer) section(title string, lines ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{r.title.Render(title)}, lines...)...)
}
