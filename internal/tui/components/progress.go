package components

import (
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	pct75  = decimal.NewFromInt(75)
	pct90  = decimal.NewFromInt(90)
	pct100 = decimal.NewFromInt(100)
)

// ColorForPct returns green/yellow/orange/red for a commitment ratio on a
// 0-100 scale.
func ColorForPct(pct decimal.Decimal) lipgloss.Color {
	t := theme.Active
	switch {
	case pct.GreaterThanOrEqual(pct100):
		return t.Red
	case pct.GreaterThanOrEqual(pct90):
		return t.Orange
	case pct.GreaterThanOrEqual(pct75):
		return t.Yellow
	default:
		return t.Green
	}
}

// fraction converts a 0-100 percentage to a clamped 0-1 float.
func fraction(pct decimal.Decimal) float64 {
	f := pct.Div(pct100).InexactFloat64()
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DistributionBar renders how net salary splits between commitments and
// balance: a filled bar for the commitment share and both percentages.
// With ratios undefined (zero net salary) the bar is empty and labelled n/a.
func DistributionBar(commitPct, balancePct decimal.Decimal, defined bool, width int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	barW := width - 34
	if barW < 10 {
		barW = 10
	}

	color := ColorForPct(commitPct)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	if !defined {
		return bar.ViewAs(0) + spaceStyle.Render("  ") + labelStyle.Render("ratios n/a (net salary is zero)")
	}

	commitStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	balanceColor := t.GreenBright
	if balancePct.IsNegative() {
		balanceColor = t.Red
	}
	balanceStyle := lipgloss.NewStyle().Foreground(balanceColor).Background(t.Surface).Bold(true)

	return bar.ViewAs(fraction(commitPct)) +
		spaceStyle.Render("  ") +
		labelStyle.Render("💳 ") + commitStyle.Render(cli.FormatPercent(commitPct, 1)) +
		spaceStyle.Render("  ") +
		labelStyle.Render("💰 ") + balanceStyle.Render(cli.FormatPercent(balancePct, 1))
}
