package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	GrossSalary string
	Currency    string
	Theme       string
}

// SetupValuesFrom pre-fills the setup answers from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		GrossSalary: cfg.General.GrossSalary.StringFixed(2),
		Currency:    cfg.General.Currency,
		Theme:       cfg.Appearance.Theme,
	}
}

// Apply validates the answers and writes them into cfg.
// cfg is left untouched when any answer is invalid.
func (v *SetupValues) Apply(cfg *config.Config) error {
	gross, err := parseAmountInput(v.GrossSalary)
	if err != nil {
		return err
	}
	currency := strings.TrimSpace(v.Currency)
	if currency == "" {
		return &model.InvalidInputError{Field: "currency", Reason: "must not be empty"}
	}
	if !theme.Known(v.Theme) {
		return &model.InvalidInputError{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", v.Theme)}
	}

	cfg.General.GrossSalary = gross
	cfg.General.Currency = currency
	cfg.Appearance.Theme = v.Theme
	return nil
}

// NewSetupForm builds the first-run form. It is embedded in the dashboard
// and also run standalone by `cbudget setup`.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cbudget").
				Description("Track where your monthly salary goes.\n\nLet's set up a few things."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gross monthly salary").
				Description("Before the 11% statutory deduction.").
				Placeholder("4030.00").
				Value(&vals.GrossSalary).
				Validate(validateAmountInput),
			huh.NewInput().
				Title("Currency label").
				Placeholder("RM").
				Value(&vals.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("currency label is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

// addValues holds the answers of the add-commitment form.
type addValues struct {
	Name   string
	Amount string
}

func newAddForm(vals *addValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Commitment name").
				Placeholder("Internet").
				Value(&vals.Name).
				Validate(model.ValidateName),
			huh.NewInput().
				Title("Monthly amount").
				Placeholder("0.00").
				Value(&vals.Amount).
				Validate(validateAmountInput),
		),
	).WithShowHelp(true)
}

func newDeleteForm(name string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s?", cli.Icon(name), name)).
				Description("The commitment is removed from this session.").
				Affirmative("Delete").
				Negative("Keep").
				Value(confirm),
		),
	)
}

// parseAmountInput turns typed text into a validated non-negative amount.
func parseAmountInput(s string) (decimal.Decimal, error) {
	d, err := cli.ParseAmount(s)
	if err != nil {
		return d, &model.InvalidInputError{Field: "amount", Reason: "not a number"}
	}
	if err := model.ValidateAmount(d); err != nil {
		return d, err
	}
	return d, nil
}

func validateAmountInput(s string) error {
	_, err := parseAmountInput(s)
	return err
}
