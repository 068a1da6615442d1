package model

import "github.com/shopspring/decimal"

// Income holds the user's gross monthly salary.
type Income struct {
	Gross decimal.Decimal
}

// NewIncome validates gross and returns an Income.
func NewIncome(gross decimal.Decimal) (Income, error) {
	if err := checkRange("gross salary", gross); err != nil {
		return Income{}, err
	}
	if gross.IsNegative() {
		return Income{}, &InvalidInputError{Field: "gross salary", Reason: "must not be negative (got " + gross.String() + ")"}
	}
	return Income{Gross: gross}, nil
}

// Summary holds the derived figures for one income and ledger.
// Ratios are percentages (0-100 for a ledger within budget).
type Summary struct {
	Gross            decimal.Decimal
	Deduction        decimal.Decimal
	NetSalary        decimal.Decimal
	TotalCommitments decimal.Decimal
	Balance          decimal.Decimal
	CommitmentRatio  decimal.Decimal
	BalanceRatio     decimal.Decimal

	// RatiosDefined is false when net salary is zero; both ratios are then 0.
	RatiosDefined bool
}

// BreakdownRow is one commitment annotated with its share of the total.
type BreakdownRow struct {
	Name           string
	Amount         decimal.Decimal
	Classification Classification
	Percentage     decimal.Decimal
}
