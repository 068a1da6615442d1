package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/pipeline"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTable(cw int) string {
	t := theme.Active
	rows := a.rows

	innerW := components.CardInnerWidth(cw)
	const (
		rankW   = 3
		amountW = 14
		shareW  = 8
		classW  = 9
		gaps    = 4
	)
	nameW := innerW - rankW - amountW - shareW - classW - gaps - 3 // icon + space
	if nameW < 12 {
		nameW = 12
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	shareStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)

	var body strings.Builder
	if len(rows) == 0 {
		body.WriteString(mutedStyle.Render("No commitments."))
		return components.ContentCard("Breakdown", body.String(), cw)
	}

	body.WriteString(headerStyle.Render(fmt.Sprintf("%*s %-*s %*s %*s %-*s",
		rankW, "#", nameW+3, "Commitment", amountW, "Amount", shareW, "Share", classW, "Class")))
	body.WriteString("\n")
	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")

	maxAmount := pipeline.MaxAmount(rows)
	for i, r := range rows {
		heat := 0.0
		if maxAmount.IsPositive() {
			heat = r.Amount.Div(maxAmount).InexactFloat64()
		}
		amountStyle := lipgloss.NewStyle().Foreground(components.HeatColor(heat)).Background(t.Surface)
		classStyle := lipgloss.NewStyle().Foreground(t.ClassColor(r.Classification)).Background(t.Surface)
		name := cli.Truncate(r.Name, nameW)

		body.WriteString(mutedStyle.Render(fmt.Sprintf("%*d ", rankW, i+1)))
		body.WriteString(rowStyle.Render(cli.Icon(r.Name) + " " + cli.PadRight(name, nameW)))
		body.WriteString(amountStyle.Render(fmt.Sprintf(" %*s", amountW, cli.FormatAmount(r.Amount))))
		body.WriteString(shareStyle.Render(fmt.Sprintf(" %*s", shareW, cli.FormatPercent(r.Percentage, 2))))
		body.WriteString(classStyle.Render(fmt.Sprintf(" %-*s", classW, r.Classification)))
		body.WriteString("\n")
	}

	body.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	body.WriteString("\n")
	body.WriteString(headerStyle.Render(fmt.Sprintf("%*s %-*s %*s",
		rankW, "", nameW+3, "Total", amountW, cli.FormatAmount(a.summary.TotalCommitments))))

	return components.ContentCard("Breakdown", body.String(), cw)
}

func (a App) renderBreakdownChart(cw int) string {
	t := theme.Active

	bars := make([]components.Bar, 0, len(a.rows))
	for _, r := range a.rows {
		if r.Amount.IsZero() {
			continue
		}
		bars = append(bars, components.Bar{
			Label: r.Name,
			Value: r.Amount.InexactFloat64(),
			Color: t.ClassColor(r.Classification),
		})
	}
	if len(bars) == 0 {
		return ""
	}

	return components.ContentCard(
		fmt.Sprintf("Amount by Commitment (%s)", a.cfg.General.Currency),
		components.HBarChart(bars, components.CardInnerWidth(cw)),
		cw,
	)
}

func (a App) renderBreakdownTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderBreakdownTable(cw))
	if chart := a.renderBreakdownChart(cw); chart != "" {
		b.WriteString("\n")
		b.WriteString(chart)
	}
	return b.String()
}
