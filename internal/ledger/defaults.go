package ledger

import (
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultGrossSalary seeds a new session's income.
var DefaultGrossSalary = decimal.RequireFromString("4030.00")

// DefaultCommitments returns the seed set used at first use.
func DefaultCommitments() []model.Commitment {
	seed := []struct {
		name   string
		amount string
		class  model.Classification
	}{
		{"Rumah Sewa", "938.00", model.Fixed},
		{"Ninja", "290.00", model.Fixed},
		{"ASB Saving", "300.00", model.Flexible},
		{"ASBF", "158.00", model.Flexible},
		{"Insurance", "217.00", model.Fixed},
		{"S24 Ultra", "0.00", model.Fixed},
		{"Tabung Haji", "50.00", model.Flexible},
		{"Telephone", "49.00", model.Fixed},
		{"Microsoft", "10.00", model.Fixed},
		{"Parents", "50.00", model.Fixed},
		{"Shopee", "0.00", model.Flexible},
		{"Google Storage", "97.99", model.Fixed},
		{"Siblings", "100.00", model.Fixed},
		{"Makan", "900.00", model.Flexible},
		{"TNG", "20.00", model.Flexible},
		{"Foodpanda", "6.50", model.Flexible},
		{"DigitalOcean", "26.00", model.Fixed},
		{"Claude", "88.00", model.Fixed},
	}

	out := make([]model.Commitment, len(seed))
	for i, s := range seed {
		out[i] = model.Commitment{
			Name:           s.name,
			Amount:         decimal.RequireFromString(s.amount),
			Classification: s.class,
		}
	}
	return out
}

// Default returns a ledger seeded with DefaultCommitments.
func Default() *Ledger {
	return &Ledger{entries: DefaultCommitments()}
}
