package pipeline

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/plan"

	"github.com/shopspring/decimal"
)

// Where a loaded session's ledger came from.
const (
	SourceDefaults = "defaults"
	SourcePlan     = "plan"
)

// LoadOptions controls how the starting session is resolved.
type LoadOptions struct {
	// PlanFile seeds the ledger (and salary) from a YAML plan when set.
	PlanFile string
	// DefaultGross is used when neither a plan nor an override supplies one.
	DefaultGross decimal.Decimal
	// GrossOverride wins over every other salary source.
	GrossOverride *decimal.Decimal
}

// LoadResult holds the resolved session and its provenance.
type LoadResult struct {
	Session *Session
	Source  string
}

// Load resolves the starting session. Salary precedence is override, then
// plan file, then DefaultGross.
func Load(opts LoadOptions) (*LoadResult, error) {
	gross := opts.DefaultGross
	l := ledger.Default()
	source := SourceDefaults

	if opts.PlanFile != "" {
		p, err := plan.ReadFile(opts.PlanFile)
		if err != nil {
			return nil, err
		}
		pl, err := p.Ledger()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", opts.PlanFile, err)
		}
		l = pl
		source = SourcePlan
		if !p.GrossSalary.IsZero() {
			gross = p.GrossSalary
		}
	}

	if opts.GrossOverride != nil {
		gross = *opts.GrossOverride
	}

	inc, err := model.NewIncome(gross)
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Session: &Session{Income: inc, Ledger: l},
		Source:  source,
	}, nil
}
