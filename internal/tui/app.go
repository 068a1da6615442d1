// Package tui provides the interactive Bubble Tea dashboard for cbudget.
package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"
	"github.com/theirongolddev/cbudget/internal/tui/components"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures a dashboard run.
type Options struct {
	Config config.Config
	// Source describes where the ledger came from (defaults or plan).
	Source string
	// Persist writes settings and setup answers back to the config file.
	Persist bool
	// FirstRun opens the setup form before the dashboard.
	FirstRun bool
}

type formKind int

const (
	formNone formKind = iota
	formSetup
	formAdd
	formDelete
)

const (
	tabOverview = iota
	tabBreakdown
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	sess    *pipeline.Session
	cfg     config.Config
	source  string
	persist bool

	// Derived figures, refreshed after every change
	summary model.Summary
	rows    []model.BreakdownRow
	entries []model.Commitment

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	lastErr   string

	// Per-tab state
	main     mainState
	settings settingsState

	// Embedded huh form. The value holders are pointers so copies of App
	// keep writing to the same place the form binds to.
	form          *huh.Form
	formKind      formKind
	setupVals     *SetupValues
	addVals       *addValues
	deleteName    string
	deleteConfirm *bool
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates the dashboard over sess. The session is edited in place.
func NewApp(sess *pipeline.Session, opts Options) App {
	a := App{
		sess:          sess,
		cfg:           opts.Config,
		source:        opts.Source,
		persist:       opts.Persist,
		setupVals:     SetupValuesFrom(opts.Config),
		addVals:       &addValues{},
		deleteConfirm: new(bool),
	}
	a.refresh()

	if opts.FirstRun {
		a.form = NewSetupForm(a.setupVals)
		a.formKind = formSetup
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// refresh recomputes the derived figures and clamps the list cursor.
func (a *App) refresh() {
	a.summary = a.sess.Summary()
	a.rows = a.sess.Breakdown()
	a.entries = a.sess.Ledger.Entries()

	if a.main.cursor >= len(a.entries) {
		a.main.cursor = len(a.entries) - 1
	}
	if a.main.cursor < 0 {
		a.main.cursor = 0
	}
}

func (a *App) setErr(err error) {
	if err == nil {
		a.lastErr = ""
		return
	}
	a.lastErr = err.Error()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.showHelp || a.form != nil || a.editing() {
			return a, nil
		}
		return a.updateMouse(msg), nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// An open form owns the keyboard; esc dismisses it.
		if a.form != nil {
			if key == "esc" {
				return a.closeForm(), nil
			}
			return a.updateForm(msg)
		}

		if a.activeTab == tabOverview && a.main.mode != editNone {
			return a.updateMainInput(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch a.activeTab {
		case tabOverview:
			if next, cmd, handled := a.updateOverviewKeys(key); handled {
				return next, cmd
			}
		case tabSettings:
			switch key {
			case "j", "down":
				if a.settings.cursor < settingsFieldCount-1 {
					a.settings.cursor++
				}
				return a, nil
			case "k", "up":
				if a.settings.cursor > 0 {
					a.settings.cursor--
				}
				return a, nil
			case "enter":
				return a.settingsStartEdit()
			}
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Tab navigation
		switch key {
		case "left":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(msg.Runes) == 1 {
				if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.main.mode != editNone {
		var cmd tea.Cmd
		a.main.input, cmd = a.main.input.Update(msg)
		return a, cmd
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) editing() bool {
	return a.main.mode != editNone || a.settings.editing
}

func (a App) updateMouse(msg tea.MouseMsg) App {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabOverview && a.main.cursor > 0 {
			a.main.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabOverview && a.main.cursor < len(a.entries)-1 {
			a.main.cursor++
		}
	case tea.MouseButtonLeft:
		// Tab bar is the first line
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
				a.activeTab = tab
			}
		}
	}
	return a
}

// ─── Forms ──────────────────────────────────────────────────────

func (a App) openForm(kind formKind, form *huh.Form) (App, tea.Cmd) {
	a.form = form
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) closeForm() App {
	a.form = nil
	a.formKind = formNone
	*a.addVals = addValues{}
	*a.deleteConfirm = false
	a.deleteName = ""
	return a
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.completeForm()
		return a, nil
	case huh.StateAborted:
		return a.closeForm(), nil
	}
	return a, cmd
}

// completeForm applies the answers of the finished form and closes it.
func (a *App) completeForm() {
	switch a.formKind {
	case formSetup:
		a.applySetup()
	case formAdd:
		a.applyAdd()
	case formDelete:
		a.applyDelete()
	}
	*a = a.closeForm()
}

func (a *App) applySetup() {
	cfg := a.cfg
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.setErr(err)
		return
	}
	if err := a.sess.SetGrossSalary(cfg.General.GrossSalary); err != nil {
		a.setErr(err)
		return
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.setErr(nil)
	if a.persist {
		if err := config.Save(cfg); err != nil {
			a.setErr(fmt.Errorf("saving config: %w", err))
		}
	}
	a.refresh()
}

func (a *App) applyAdd() {
	name := strings.TrimSpace(a.addVals.Name)
	amount, err := parseAmountInput(a.addVals.Amount)
	if err == nil {
		err = a.sess.Ledger.Add(name, amount)
	}
	a.setErr(err)
	if err != nil {
		return
	}
	a.refresh()
	a.selectName(name)
}

func (a *App) applyDelete() {
	if !*a.deleteConfirm || a.deleteName == "" {
		return
	}
	a.sess.Ledger.Delete(a.deleteName)
	a.setErr(nil)
	a.refresh()
}

// selectName moves the list cursor onto name when present.
func (a *App) selectName(name string) {
	for i, c := range a.entries {
		if c.Name == name {
			a.main.cursor = i
			return
		}
	}
}

func (a App) selected() (model.Commitment, bool) {
	if a.main.cursor < 0 || a.main.cursor >= len(a.entries) {
		return model.Commitment{}, false
	}
	return a.entries[a.main.cursor], true
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// ─── Views ──────────────────────────────────────────────────────

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cbudget needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	titles := map[formKind]string{
		formSetup:  "◈ cbudget setup",
		formAdd:    "◈ Add commitment",
		formDelete: "◈ Delete commitment",
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render(titles[a.formKind]) + "\n\n" +
		a.form.View() + "\n" +
		hintStyle.Render("esc to cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o b x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through lists"},
			{"g G", "First / Last commitment"},
		}},
		{"Commitments", []struct{ key, desc string }{
			{"Enter", "Edit amount"},
			{"t", "Toggle fixed / flexible"},
			{"n", "Rename"},
			{"a", "Add commitment"},
			{"d", "Delete commitment"},
		}},
		{"General", []struct{ key, desc string }{
			{"Esc", "Cancel edit"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + income pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	info := pillStyle.Render(" gross ") +
		pillAccentStyle.Render(cli.FormatMoney(a.cfg.General.Currency, a.summary.Gross)) +
		pillStyle.Render(" │ ") +
		pillAccentStyle.Render(fmt.Sprintf("%d", len(a.entries))) +
		pillStyle.Render(" commitments │ ") +
		pillAccentStyle.Render(a.source) +
		pillStyle.Render(" ")

	infoRowStyle := lipgloss.NewStyle().Background(t.Surface).Width(w)
	header := lipgloss.JoinVertical(lipgloss.Left,
		components.RenderTabBar(a.activeTab, w),
		infoRowStyle.Render(info))

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.lastErr, a.statusInfo())

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw, contentH)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.main.mode != editNone || a.settings.editing:
		return "[enter] save  [esc] cancel"
	case a.activeTab == tabOverview:
		return "[j/k] move [enter] amount [t]oggle re[n]ame [a]dd [d]el [?]help"
	case a.activeTab == tabSettings:
		return "[j/k] navigate [enter] edit [?]help [q]uit"
	default:
		return "[←/→] tabs [?]help [q]uit"
	}
}

func (a App) statusInfo() string {
	if a.settings.saved {
		return "saved"
	}
	return a.cfg.General.Currency
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color
// so gaps between cards and empty lines are filled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
