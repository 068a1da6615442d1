package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/cbudget/internal/pipeline"
	"github.com/theirongolddev/cbudget/internal/plan"

	"github.com/spf13/cobra"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as csv, json or yaml",
	Long: "Write the current ledger. json and yaml produce a plan file that can be\n" +
		"passed back with --plan; csv lists the breakdown with percentages.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "yaml", "Output format: csv, json, yaml")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	result, err := loadSession()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer f.Close()
		w = f
	}

	if err := writeExport(w, flagExportFormat, result.Session); err != nil {
		return err
	}

	if flagExportOut != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d commitments to %s\n", result.Session.Ledger.Len(), flagExportOut)
	}
	return nil
}

func writeExport(w io.Writer, format string, sess *pipeline.Session) error {
	switch format {
	case "csv":
		return plan.WriteCSV(w, sess.Breakdown())
	case "json":
		return plan.WriteJSON(w, plan.FromCommitments(sess.Income.Gross, sess.Ledger.Entries()))
	case "yaml", "yml":
		return plan.WriteYAML(w, plan.FromCommitments(sess.Income.Gross, sess.Ledger.Entries()))
	default:
		return fmt.Errorf("unknown format %q (want csv, json or yaml)", format)
	}
}
