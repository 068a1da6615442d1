package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type editMode int

const (
	editNone editMode = iota
	editAmount
	editRename
)

// mainState tracks the overview tab's commitment list.
type mainState struct {
	cursor int
	mode   editMode
	target string // name of the commitment being edited
	input  textinput.Model
	err    string
}

func newLineInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Width = 24
	ti.SetValue(value)
	ti.Focus()
	return ti
}

// updateOverviewKeys handles list keys. handled is false for keys that fall
// through to global navigation.
func (a App) updateOverviewKeys(key string) (next App, cmd tea.Cmd, handled bool) {
	switch key {
	case "j", "down":
		if a.main.cursor < len(a.entries)-1 {
			a.main.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.main.cursor > 0 {
			a.main.cursor--
		}
		return a, nil, true
	case "g":
		a.main.cursor = 0
		return a, nil, true
	case "G":
		a.main.cursor = len(a.entries) - 1
		if a.main.cursor < 0 {
			a.main.cursor = 0
		}
		return a, nil, true
	case "enter":
		c, ok := a.selected()
		if !ok {
			return a, nil, true
		}
		a.main.mode = editAmount
		a.main.target = c.Name
		a.main.err = ""
		a.main.input = newLineInput("0.00", c.Amount.StringFixed(2))
		return a, a.main.input.Cursor.BlinkCmd(), true
	case "n":
		c, ok := a.selected()
		if !ok {
			return a, nil, true
		}
		a.main.mode = editRename
		a.main.target = c.Name
		a.main.err = ""
		a.main.input = newLineInput("name", c.Name)
		return a, a.main.input.Cursor.BlinkCmd(), true
	case "t":
		if c, ok := a.selected(); ok {
			a.sess.Ledger.Toggle(c.Name)
			a.refresh()
		}
		return a, nil, true
	case "a":
		*a.addVals = addValues{}
		next, cmd = a.openForm(formAdd, newAddForm(a.addVals))
		return next, cmd, true
	case "d":
		c, ok := a.selected()
		if !ok {
			return a, nil, true
		}
		a.deleteName = c.Name
		*a.deleteConfirm = false
		next, cmd = a.openForm(formDelete, newDeleteForm(c.Name, a.deleteConfirm))
		return next, cmd, true
	}
	return a, nil, false
}

// updateMainInput handles keys while an amount or name is being edited.
// Invalid input keeps the prompt open with the error shown.
func (a App) updateMainInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := a.commitMainInput(); err != nil {
			a.main.err = err.Error()
			a.setErr(err)
			return a, nil
		}
		a.main.mode = editNone
		a.main.err = ""
		a.setErr(nil)
		return a, nil
	case "esc":
		a.main.mode = editNone
		a.main.err = ""
		return a, nil
	}

	var cmd tea.Cmd
	a.main.input, cmd = a.main.input.Update(msg)
	return a, cmd
}

func (a *App) commitMainInput() error {
	val := strings.TrimSpace(a.main.input.Value())

	switch a.main.mode {
	case editAmount:
		amount, err := cli.ParseAmount(val)
		if err != nil {
			return &model.InvalidInputError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", val)}
		}
		if err := a.sess.Ledger.SetAmount(a.main.target, amount); err != nil {
			return err
		}
	case editRename:
		if err := a.sess.Ledger.Rename(a.main.target, val); err != nil {
			return err
		}
	}

	a.refresh()
	if a.main.mode == editRename {
		a.selectName(val)
	}
	return nil
}

func (a App) renderOverviewTab(cw, h int) string {
	t := theme.Active
	s := a.summary
	cur := a.cfg.General.Currency
	var b strings.Builder

	// Row 1: metric cards
	commitNote := "ratio n/a"
	balanceNote := "ratio n/a"
	if s.RatiosDefined {
		commitNote = cli.FormatPercent(s.CommitmentRatio, 2) + " of net"
		balanceNote = cli.FormatPercent(s.BalanceRatio, 2) + " of net"
	}
	cards := []components.Metric{
		{Label: "Net Salary", Value: cli.FormatMoney(cur, s.NetSalary), Note: "after " + cli.FormatPercent(pipeline.DeductionRate.Mul(hundred), 0) + " deduction"},
		{Label: "Commitments", Value: cli.FormatMoney(cur, s.TotalCommitments), Note: commitNote, Color: components.ColorForPct(s.CommitmentRatio)},
		{Label: "Balance", Value: cli.FormatMoney(cur, s.Balance), Note: balanceNote, Color: t.SignColor(s.Balance)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: salary distribution
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	deductStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var dist strings.Builder
	dist.WriteString(mutedStyle.Render("Gross "))
	dist.WriteString(valueStyle.Render(cli.FormatMoney(cur, s.Gross)))
	dist.WriteString(mutedStyle.Render("  deduction "))
	dist.WriteString(deductStyle.Render("-" + cli.FormatMoney(cur, s.Deduction)))
	dist.WriteString(mutedStyle.Render("  net "))
	dist.WriteString(valueStyle.Render(cli.FormatMoney(cur, s.NetSalary)))
	dist.WriteString("\n")
	dist.WriteString(components.DistributionBar(s.CommitmentRatio, s.BalanceRatio, s.RatiosDefined, components.CardInnerWidth(cw)))
	b.WriteString(components.ContentCard("Salary Distribution", dist.String(), cw))
	b.WriteString("\n")

	// Row 3: commitment list, windowed around the cursor
	used := lipgloss.Height(b.String())
	listH := h - used - 3 // card border + title
	if listH < 3 {
		listH = 3
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Commitments (%d)", len(a.entries)),
		a.renderCommitmentList(components.CardInnerWidth(cw), listH),
		cw,
	))

	return b.String()
}

func (a App) renderCommitmentList(innerW, maxRows int) string {
	t := theme.Active

	if len(a.entries) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render("No commitments. Press [a] to add one.")
	}

	const (
		amountW = 14
		tagW    = 8
	)
	nameW := innerW - 2 - 3 - amountW - 1 - tagW
	if nameW < 10 {
		nameW = 10
	}

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	start := 0
	if a.main.cursor >= maxRows {
		start = a.main.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(a.entries) {
		end = len(a.entries)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		c := a.entries[i]
		selected := i == a.main.cursor

		style := rowStyle
		marker := rowStyle.Render("  ")
		if selected {
			style = selStyle
			marker = markerStyle.Render("▸ ")
		}
		tagStyle := lipgloss.NewStyle().Foreground(t.ClassColor(c.Classification)).Background(style.GetBackground())

		name := cli.Truncate(c.Name, nameW)
		amount := cli.FormatAmount(c.Amount)

		line := marker + style.Render(cli.Icon(c.Name)+" ")
		if selected && a.main.mode == editRename {
			line += a.main.input.View()
		} else {
			line += style.Render(cli.PadRight(name, nameW))
			if selected && a.main.mode == editAmount {
				line += style.Render(" ") + a.main.input.View()
			} else {
				line += style.Render(fmt.Sprintf(" %*s", amountW, amount))
				line += tagStyle.Render(fmt.Sprintf(" %-*s", tagW, c.Classification))
			}
		}

		if selected {
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad))
			}
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if a.main.mode != editNone && a.main.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("✗ " + a.main.err))
	}
	if end < len(a.entries) || start > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(a.entries))))
	}

	return b.String()
}
