package pipeline

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
)

func benchLedger(n int) []model.Commitment {
	out := make([]model.Commitment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Commitment{
			Name:           fmt.Sprintf("item-%d", i),
			Amount:         decimal.NewFromInt(int64((i * 37) % 1000)),
			Classification: model.Flexible,
		})
	}
	return out
}

func BenchmarkComputeSummary(b *testing.B) {
	income := model.Income{Gross: ledger.DefaultGrossSalary}
	entries := ledger.DefaultCommitments()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeSummary(income, entries)
	}
}

func BenchmarkBreakdown(b *testing.B) {
	for _, n := range []int{18, 500} {
		entries := benchLedger(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = Breakdown(entries)
			}
		})
	}
}
