// Package cmd implements the cbudget CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/cbudget/internal/buildinfo"
	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/logging"
	"github.com/theirongolddev/cbudget/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSalary string
	flagPlan   string
	flagQuiet  bool
)

// appCfg is the resolved configuration, loaded before any command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "cbudget",
	Short: "Monthly salary commitment tracker",
	Long: "Track fixed and flexible monthly commitments against your net salary\n" +
		"(gross less the 11% statutory deduction).",
	Version:           buildinfo.Version,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("cbudget %s (commit %s, built %s)\n",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))

	rootCmd.PersistentFlags().StringVarP(&flagSalary, "salary", "s", "", "Gross monthly salary (overrides config and plan)")
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "p", "", "Plan file (yaml, json or csv) to seed the ledger from")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// initRuntime loads .env and the config file and configures logging.
func initRuntime(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	level := logging.LevelFromEnv()
	if flagQuiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	logging.SetupWithLevel(level)
	return nil
}

// salaryOverride parses --salary, returning nil when it was not given.
func salaryOverride() (*decimal.Decimal, error) {
	if flagSalary == "" {
		return nil, nil
	}
	gross, err := cli.ParseAmount(flagSalary)
	if err != nil {
		return nil, fmt.Errorf("--salary: %w", err)
	}
	return &gross, nil
}

// loadSession is the shared session loading path used by all commands.
func loadSession() (*pipeline.LoadResult, error) {
	override, err := salaryOverride()
	if err != nil {
		return nil, err
	}

	planFile := flagPlan
	if planFile == "" {
		planFile = appCfg.General.PlanFile
	}

	result, err := pipeline.Load(pipeline.LoadOptions{
		PlanFile:      planFile,
		DefaultGross:  appCfg.General.GrossSalary,
		GrossOverride: override,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("session loaded",
		"source", result.Source,
		"commitments", result.Session.Ledger.Len(),
		"gross", result.Session.Income.Gross.String())
	if !flagQuiet && result.Source == pipeline.SourcePlan {
		fmt.Fprintf(os.Stderr, "  Loaded %d commitments from %s\n", result.Session.Ledger.Len(), planFile)
	}

	return result, nil
}
