package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// heatBlue is the light blue that the largest amount is shaded toward.
var heatBlue = colorful.Color{R: 173.0 / 255, G: 216.0 / 255, B: 230.0 / 255}

// HeatColor shades from the muted text color (frac 0) to light blue
// (frac 1). frac is clamped to 0..1.
func HeatColor(frac float64) lipgloss.Color {
	t := theme.Active
	base, err := colorful.Hex(string(t.TextMuted))
	if err != nil {
		return t.Cyan
	}
	frac = math.Max(0, math.Min(1, frac))
	return lipgloss.Color(base.BlendRgb(heatBlue, frac).Clamped().Hex())
}

// Bar is one labelled value in a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Color lipgloss.Color
}

// HBarChart renders one row per bar, scaled against a rounded axis ceiling,
// with eighth-block precision and an axis line of tick labels underneath.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	maxVal := 0.0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > labelW {
			labelW = w
		}
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}

	tickStep := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	if ceiling <= 0 {
		ceiling = 1
	}

	chartW := width - labelW - 2
	if chartW < 5 {
		chartW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	partials := []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

	var b strings.Builder
	for _, bar := range bars {
		label := cli.Truncate(bar.Label, labelW)
		b.WriteString(labelStyle.Render(cli.PadRight(label, labelW)))
		b.WriteString(axisStyle.Render(" │"))

		color := bar.Color
		if color == "" {
			color = t.Accent
		}
		barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

		eighths := int(math.Round(bar.Value / ceiling * float64(chartW*8)))
		if eighths < 0 {
			eighths = 0
		}
		full := eighths / 8
		rem := eighths % 8

		var cells strings.Builder
		cells.WriteString(strings.Repeat("█", full))
		if rem > 0 {
			cells.WriteRune(partials[rem])
		}
		b.WriteString(barStyle.Render(cells.String()))
		b.WriteString("\n")
	}

	// Axis with tick labels
	b.WriteString(spaceStyle.Render(strings.Repeat(" ", labelW+1)))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", chartW)))
	b.WriteString("\n")

	ticks := make([]byte, chartW+1)
	for i := range ticks {
		ticks[i] = ' '
	}
	lastEnd := -1
	for v := 0.0; v <= ceiling+tickStep/2; v += tickStep {
		lbl := formatChartLabel(v)
		pos := int(math.Round(v / ceiling * float64(chartW)))
		if pos+len(lbl) > len(ticks) {
			pos = len(ticks) - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			continue
		}
		copy(ticks[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	b.WriteString(spaceStyle.Render(strings.Repeat(" ", labelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(ticks), " ")))

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("%.0fM", v/1e6)
		}
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("%.0fk", v/1e3)
		}
		return fmt.Sprintf("%.1fk", v/1e3)
	case v >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
