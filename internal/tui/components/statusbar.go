package components

import (
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// either the last error or an info string on the right.
func RenderStatusBar(width int, hints, errMsg, info string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)

	left := base.Render(" " + hints)
	right := base.Render(info + " ")
	if errMsg != "" {
		right = errStyle.Render("✗ "+errMsg) + base.Render(" ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(left + gap + right)
}
