package pipeline

import (
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// Session is the state owned by one user: their income and ledger.
// Callers pass it explicitly; sessions never share a ledger.
type Session struct {
	Income model.Income
	Ledger *ledger.Ledger
}

// NewSession returns a session with gross salary and the default seed ledger.
func NewSession(gross decimal.Decimal) (*Session, error) {
	inc, err := model.NewIncome(gross)
	if err != nil {
		return nil, err
	}
	return &Session{Income: inc, Ledger: ledger.Default()}, nil
}

// SetGrossSalary replaces the session income.
func (s *Session) SetGrossSalary(gross decimal.Decimal) error {
	inc, err := model.NewIncome(gross)
	if err != nil {
		return err
	}
	s.Income = inc
	return nil
}

// Summary computes the current derived figures.
func (s *Session) Summary() model.Summary {
	return ComputeSummary(s.Income, s.Ledger.Entries())
}

// Breakdown returns the current sorted breakdown.
func (s *Session) Breakdown() []model.BreakdownRow {
	return Breakdown(s.Ledger.Entries())
}

// Clone returns an independent copy of the session.
func (s *Session) Clone() *Session {
	return &Session{Income: s.Income, Ledger: s.Ledger.Clone()}
}
