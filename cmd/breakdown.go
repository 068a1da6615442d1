package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var flagBreakdownTop int

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Commitments sorted by amount with their share of the total",
	RunE:  runBreakdown,
}

func init() {
	breakdownCmd.Flags().IntVarP(&flagBreakdownTop, "top", "n", 0, "Show only the N largest commitments (0 = all)")
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	result, err := loadSession()
	if err != nil {
		return err
	}

	rows := result.Session.Breakdown()
	if len(rows) == 0 {
		fmt.Println("\n  No commitments.")
		fmt.Println("  Add some with `cbudget tui` or a --plan file.")
		return nil
	}

	total := pipeline.Total(result.Session.Ledger.Entries())
	if flagBreakdownTop > 0 && flagBreakdownTop < len(rows) {
		rows = rows[:flagBreakdownTop]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BREAKDOWN  %s", cli.FormatMoney(appCfg.General.Currency, total))))
	fmt.Println()

	tableRows := make([][]string, 0, len(rows)+2)
	for i, r := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%d. %s %s", i+1, cli.Icon(r.Name), r.Name),
			cli.FormatAmount(r.Amount),
			cli.FormatPercent(r.Percentage, 2),
			string(r.Classification),
		})
	}
	tableRows = append(tableRows, []string{"---"})
	tableRows = append(tableRows, []string{"Total", cli.FormatAmount(total), "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Commitment", "Amount", "Share", "Class"},
		Rows:    tableRows,
	}))

	fmt.Println()
	printBars(os.Stdout, rows)
	fmt.Println()
	return nil
}

func printBars(w io.Writer, rows []model.BreakdownRow) {
	maxAmount := pipeline.MaxAmount(rows)

	labelW := 0
	for _, r := range rows {
		if nw := lipgloss.Width(r.Name); nw > labelW {
			labelW = nw
		}
	}
	if labelW > 24 {
		labelW = 24
	}

	for _, r := range rows {
		label := cli.PadRight(cli.Truncate(r.Name, labelW), labelW)
		fmt.Fprintln(w, cli.RenderHorizontalBar(label, r.Amount, maxAmount, 40))
	}
}
