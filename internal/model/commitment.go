// Package model defines domain types for cbudget commitments and summaries.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Classification tags a commitment as fixed or flexible. It drives display
// styling only and never changes a computed total.
type Classification string

const (
	Fixed    Classification = "fixed"
	Flexible Classification = "flexible"
)

// Toggled returns the opposite classification.
func (c Classification) Toggled() Classification {
	if c == Fixed {
		return Flexible
	}
	return Fixed
}

// ParseClassification maps a user string to a Classification.
// Anything other than "fixed" is flexible.
func ParseClassification(s string) Classification {
	if strings.EqualFold(strings.TrimSpace(s), string(Fixed)) {
		return Fixed
	}
	return Flexible
}

// Commitment is one named recurring monthly expense or savings allocation.
type Commitment struct {
	Name           string
	Amount         decimal.Decimal
	Classification Classification
}

// Entry is a (name, amount) pair as edited by a presentation layer.
type Entry struct {
	Name   string
	Amount decimal.Decimal
}

// ValidateName rejects empty (or whitespace-only) commitment names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Bounds on accepted money values. Decimals carry an unbounded exponent, and
// "1e2000000" would otherwise be rescaled to millions of digits by every sum.
const (
	MaxIntegerDigits = 12
	MaxDecimalPlaces = 8
)

// ValidateAmount rejects negative or out-of-range amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if err := checkRange("amount", amount); err != nil {
		return err
	}
	if amount.IsNegative() {
		return &InvalidInputError{Field: "amount", Reason: "must not be negative (got " + amount.String() + ")"}
	}
	return nil
}

// checkRange looks only at the coefficient length and exponent, so it never
// rescales the value it is guarding against.
func checkRange(field string, d decimal.Decimal) error {
	exp := int(d.Exponent())
	if d.NumDigits()+exp > MaxIntegerDigits {
		return &InvalidInputError{Field: field, Reason: fmt.Sprintf("exceeds %d integer digits", MaxIntegerDigits)}
	}
	if exp < -MaxDecimalPlaces {
		return &InvalidInputError{Field: field, Reason: fmt.Sprintf("has more than %d decimal places", MaxDecimalPlaces)}
	}
	return nil
}
