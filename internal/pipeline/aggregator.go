// Package pipeline derives summaries and breakdowns from an income and a
// ledger, and resolves where a session's starting ledger comes from.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// DeductionRate is the fixed statutory deduction taken from gross salary.
var DeductionRate = decimal.RequireFromString("0.11")

var hundred = decimal.NewFromInt(100)

// Deduction returns the statutory deduction for gross.
func Deduction(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(DeductionRate)
}

// NetSalary returns gross minus the statutory deduction.
func NetSalary(gross decimal.Decimal) decimal.Decimal {
	return gross.Sub(Deduction(gross))
}

// Total sums commitment amounts.
func Total(entries []model.Commitment) decimal.Decimal {
	total := decimal.Zero
	for _, c := range entries {
		total = total.Add(c.Amount)
	}
	return total
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// ComputeSummary derives net salary, totals and ratios. It is pure.
// With a zero net salary both ratios are 0 and RatiosDefined is false.
func ComputeSummary(income model.Income, entries []model.Commitment) model.Summary {
	deduction := Deduction(income.Gross)
	net := income.Gross.Sub(deduction)
	total := Total(entries)
	balance := net.Sub(total)

	return model.Summary{
		Gross:            income.Gross,
		Deduction:        deduction,
		NetSalary:        net,
		TotalCommitments: total,
		Balance:          balance,
		CommitmentRatio:  percentOf(total, net),
		BalanceRatio:     percentOf(balance, net),
		RatiosDefined:    !net.IsZero(),
	}
}

// Breakdown sorts entries by amount, largest first, and annotates each with
// its share of the total rounded to 2 decimal places. Ties keep ledger order.
func Breakdown(entries []model.Commitment) []model.BreakdownRow {
	total := Total(entries)

	rows := make([]model.BreakdownRow, len(entries))
	for i, c := range entries {
		rows[i] = model.BreakdownRow{
			Name:           c.Name,
			Amount:         c.Amount,
			Classification: c.Classification,
			Percentage:     percentOf(c.Amount, total).Round(2),
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})
	return rows
}

// MaxAmount returns the largest amount among rows, or zero.
func MaxAmount(rows []model.BreakdownRow) decimal.Decimal {
	peak := decimal.Zero
	for _, r := range rows {
		if r.Amount.GreaterThan(peak) {
			peak = r.Amount
		}
	}
	return peak
}
