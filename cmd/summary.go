package cmd

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Net salary, commitments and balance",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadSession()
	if err != nil {
		return err
	}

	printSummary("MONTHLY BUDGET", result.Session.Summary(), result.Session.Ledger.Len())
	return nil
}

// printSummary renders the summary table followed by the ratio bar.
func printSummary(title string, s model.Summary, count int) {
	cur := appCfg.General.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	commitRatio, balanceRatio := "n/a", "n/a"
	if s.RatiosDefined {
		commitRatio = cli.FormatPercent(s.CommitmentRatio, 2)
		balanceRatio = cli.FormatPercent(s.BalanceRatio, 2)
	}

	rows := [][]string{
		{"Gross Salary", cli.FormatMoney(cur, s.Gross)},
		{"Deduction (" + cli.FormatPercent(pipeline.DeductionRate.Shift(2), 0) + ")", "-" + cli.FormatMoney(cur, s.Deduction)},
		{"Net Salary", cli.FormatMoney(cur, s.NetSalary)},
		{"---"},
		{fmt.Sprintf("Commitments (%d)", count), cli.FormatMoney(cur, s.TotalCommitments)},
		{"Balance", cli.RenderSigned(s.Balance, cli.FormatMoney(cur, s.Balance))},
		{"---"},
		{"Commitment Ratio", commitRatio},
		{"Balance Ratio", balanceRatio},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if s.RatiosDefined {
		fmt.Println()
		fmt.Printf("  Committed %s\n", cli.RenderProgressBar(s.CommitmentRatio, 40))
	} else {
		fmt.Println()
		fmt.Println("  Ratios are undefined while net salary is zero.")
	}
	fmt.Println()
}
