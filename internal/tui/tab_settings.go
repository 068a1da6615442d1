package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldGross = iota
	settingsFieldCurrency
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	err     string // validation error of the open edit
	saved   bool   // flash "saved" message briefly
	saveErr error  // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.err = ""

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldGross:
		ti.Placeholder = "4030.00"
		ti.SetValue(a.summary.Gross.StringFixed(2))
	case settingsFieldCurrency:
		ti.Placeholder = "RM"
		ti.SetValue(a.cfg.General.Currency)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

// updateSettingsInput handles keys while a setting is being edited.
// An invalid value keeps the edit open.
func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := a.settingsSave(); err != nil {
			a.settings.err = err.Error()
			a.setErr(err)
			return a, nil
		}
		a.settings.editing = false
		a.settings.err = ""
		a.settings.saved = a.settings.saveErr == nil
		a.setErr(nil)
		return a, nil
	case "esc":
		a.settings.editing = false
		a.settings.err = ""
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value and applies it to the session and
// config. The config file is only written when persistence is enabled.
func (a *App) settingsSave() error {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldGross:
		gross, err := cli.ParseAmount(val)
		if err != nil {
			return &model.InvalidInputError{Field: "gross salary", Reason: fmt.Sprintf("%q is not a number", val)}
		}
		if err := a.sess.SetGrossSalary(gross); err != nil {
			return err
		}
		cfg.General.GrossSalary = gross
		a.refresh()
	case settingsFieldCurrency:
		if val == "" {
			return &model.InvalidInputError{Field: "currency", Reason: "must not be empty"}
		}
		cfg.General.Currency = val
	case settingsFieldTheme:
		if !theme.Known(val) {
			return &model.InvalidInputError{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", val)}
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	}

	a.cfg = cfg
	a.settings.saveErr = nil
	if a.persist {
		a.settings.saveErr = config.Save(cfg)
	}
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	type field struct {
		label string
		value string
	}

	fields := []field{
		{"Gross Salary", cli.FormatMoney(a.cfg.General.Currency, a.summary.Gross)},
		{"Currency", a.cfg.General.Currency},
		{"Theme", a.cfg.Appearance.Theme},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			if a.settings.err != "" {
				formBody.WriteString(errStyle.Render("  ✗ " + a.settings.err))
				formBody.WriteString("\n")
			}
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		if a.persist {
			formBody.WriteString(greenStyle.Render("Saved!"))
		} else {
			formBody.WriteString(greenStyle.Render("Applied to this session."))
		}
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	persistNote := "no (session only)"
	if a.persist {
		persistNote = "yes"
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()) + "\n")
	infoBody.WriteString(labelStyle.Render("Save changes:  ") + valueStyle.Render(persistNote) + "\n")
	infoBody.WriteString(labelStyle.Render("Ledger source: ") + valueStyle.Render(a.source) + "\n")
	infoBody.WriteString(labelStyle.Render("Themes:        ") + valueStyle.Render(strings.Join(theme.Names(), ", ")))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
