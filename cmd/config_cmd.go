package cmd

import (
	"fmt"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Gross salary: %s\n", cli.FormatMoney(cfg.General.Currency, cfg.General.GrossSalary))
	fmt.Printf("    Currency:     %s\n", cfg.General.Currency)
	if cfg.General.PlanFile != "" {
		fmt.Printf("    Plan file:    %s\n", cfg.General.PlanFile)
	} else {
		fmt.Println("    Plan file:    not set (built-in defaults)")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Snapshot]")
	fmt.Printf("    Database: %s\n", cfg.SnapshotPath())
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s\n", config.EnvGrossSalary, config.EnvTheme, config.EnvAddr)
	fmt.Println("  Run `cbudget setup` to reconfigure.")
	return nil
}
