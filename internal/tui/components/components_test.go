package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("padding line %d has no ANSI styling: %q", i, lines[i])
		}
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Net salary", Value: "RM 3,586.70"},
		{Label: "Commitments", Value: "RM 3,300.49", Note: "92.0% of net"},
		{Label: "Balance", Value: "RM 286.21", Color: theme.Active.Green},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "RM 286.21") {
		t.Error("balance value missing from card row")
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{10, 79, 80, 121} {
		for n := 1; n <= 4; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Errorf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestTabVisualWidth(t *testing.T) {
	for i, tab := range Tabs {
		want := len(tab.Name) + 2
		if got := TabVisualWidth(tab, true); got != want {
			t.Errorf("active tab %d width = %d, want %d", i, got, want)
		}
		if tab.KeyPos < 0 {
			want += 3 // "[x]"
		}
		if got := TabVisualWidth(tab, false); got != want {
			t.Errorf("inactive tab %d width = %d, want %d", i, got, want)
		}
	}
}

func TestRenderTabBarWidth(t *testing.T) {
	bar := RenderTabBar(1, 80)
	if w := lipgloss.Width(bar); w != 80 {
		t.Errorf("tab bar width = %d, want 80", w)
	}
	if !strings.Contains(bar, "Breakdown") {
		t.Error("active tab name missing")
	}
}

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'o': 0, 'b': 1, 'x': 2, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestRenderStatusBarShowsError(t *testing.T) {
	bar := RenderStatusBar(80, "[?]help [q]uit", "amount must be non-negative", "")
	if !strings.Contains(bar, "✗ amount must be non-negative") {
		t.Errorf("error missing from status bar: %q", bar)
	}

	bar = RenderStatusBar(80, "[?]help", "", "default plan")
	if !strings.Contains(bar, "default plan") {
		t.Errorf("info missing from status bar: %q", bar)
	}
}

func TestColorForPct(t *testing.T) {
	th := theme.Active
	cases := []struct {
		pct  int64
		want lipgloss.Color
	}{
		{10, th.Green},
		{80, th.Yellow},
		{95, th.Orange},
		{100, th.Red},
		{140, th.Red},
	}
	for _, c := range cases {
		if got := ColorForPct(decimal.NewFromInt(c.pct)); got != c.want {
			t.Errorf("ColorForPct(%d) = %s, want %s", c.pct, got, c.want)
		}
	}
}

func TestDistributionBar(t *testing.T) {
	out := DistributionBar(decimal.RequireFromString("92.02"), decimal.RequireFromString("7.98"), true, 80)
	if !strings.Contains(out, "92.0%") || !strings.Contains(out, "8.0%") {
		t.Errorf("percentages missing: %q", out)
	}

	out = DistributionBar(decimal.Zero, decimal.Zero, false, 80)
	if !strings.Contains(out, "n/a") {
		t.Errorf("undefined ratios should read n/a: %q", out)
	}
}

func TestHBarChartScalesToLargestBar(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "Rent", Value: 1000},
		{Label: "Food", Value: 500},
	}, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 2 bars + axis + ticks", len(lines))
	}

	chartW := 40 - 4 - 2
	if got := strings.Count(lines[0], "█"); got != chartW {
		t.Errorf("full bar = %d cells, want %d", got, chartW)
	}
	if got := strings.Count(lines[1], "█"); got != chartW/2 {
		t.Errorf("half bar = %d cells, want %d", got, chartW/2)
	}
	if !strings.Contains(lines[3], "1k") {
		t.Errorf("axis labels missing ceiling: %q", lines[3])
	}
}

func TestHBarChartEmpty(t *testing.T) {
	if HBarChart(nil, 40) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestChartTickStep(t *testing.T) {
	cases := map[float64]float64{0: 1, 1000: 200, 4030: 500, 10: 2}
	for in, want := range cases {
		if got := chartTickStep(in); got != want {
			t.Errorf("chartTickStep(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{0: "0", 200: "200", 1000: "1k", 1500: "1.5k", 2e6: "2M"}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestHeatColorScale(t *testing.T) {
	theme.SetActive("flexoki-dark")

	if got := HeatColor(0); got != lipgloss.Color("#878580") {
		t.Errorf("HeatColor(0) = %s, want muted text color", got)
	}
	if got := HeatColor(1); got != lipgloss.Color("#add8e6") {
		t.Errorf("HeatColor(1) = %s, want #add8e6", got)
	}
	if got := HeatColor(7); got != HeatColor(1) {
		t.Errorf("HeatColor(7) = %s, want clamp to HeatColor(1)", got)
	}
	mid := HeatColor(0.5)
	if mid == HeatColor(0) || mid == HeatColor(1) {
		t.Errorf("HeatColor(0.5) = %s, want a blend", mid)
	}
}
