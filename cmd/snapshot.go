package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/cbudget/internal/cli"
	"github.com/theirongolddev/cbudget/internal/ledger"
	"github.com/theirongolddev/cbudget/internal/model"
	"github.com/theirongolddev/cbudget/internal/pipeline"
	"github.com/theirongolddev/cbudget/internal/plan"
	"github.com/theirongolddev/cbudget/internal/store"

	"github.com/spf13/cobra"
)

var flagSnapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore named ledger snapshots",
	Long: "Snapshots are opt-in: nothing is written to disk unless you run\n" +
		"`cbudget snapshot save`.",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the current income and ledger under NAME",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotSave,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load NAME",
	Short: "Show a snapshot, optionally writing it out as a plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotLoad,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	snapshotLoadCmd.Flags().StringVarP(&flagSnapshotOut, "out", "o", "", "Write the snapshot as a YAML plan to this file")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func openSnapshots() (*store.Store, error) {
	s, err := store.Open(appCfg.SnapshotPath())
	if err != nil {
		return nil, fmt.Errorf("opening snapshots: %w", err)
	}
	return s, nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := model.ValidateName(name); err != nil {
		return err
	}

	result, err := loadSession()
	if err != nil {
		return err
	}

	s, err := openSnapshots()
	if err != nil {
		return err
	}
	defer s.Close()

	snap := store.Snapshot{
		Name:        name,
		GrossSalary: result.Session.Income.Gross,
		Commitments: result.Session.Ledger.Entries(),
		SavedAt:     time.Now(),
	}
	if err := s.Save(cmd.Context(), snap); err != nil {
		return err
	}

	fmt.Printf("  Saved snapshot %q (%d commitments) to %s\n", name, len(snap.Commitments), appCfg.SnapshotPath())
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	s, err := openSnapshots()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Load(cmd.Context(), args[0])
	if err != nil {
		return snapshotErr(err, args[0])
	}

	l, err := ledger.FromCommitments(snap.Commitments)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", snap.Name, err)
	}
	inc, err := model.NewIncome(snap.GrossSalary)
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", snap.Name, err)
	}
	sess := &pipeline.Session{Income: inc, Ledger: l}

	printSummary(fmt.Sprintf("SNAPSHOT %s  %s", snap.Name, snap.SavedAt.Local().Format("2006-01-02 15:04")),
		sess.Summary(), l.Len())

	if flagSnapshotOut != "" {
		f, err := os.Create(flagSnapshotOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagSnapshotOut, err)
		}
		defer f.Close()
		if err := plan.WriteYAML(f, plan.FromCommitments(snap.GrossSalary, snap.Commitments)); err != nil {
			return err
		}
		fmt.Printf("  Wrote plan to %s (use it with --plan)\n", flagSnapshotOut)
	}
	return nil
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	s, err := openSnapshots()
	if err != nil {
		return err
	}
	defer s.Close()

	infos, err := s.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("\n  No snapshots saved.")
		fmt.Println("  Save one with `cbudget snapshot save NAME`.")
		return nil
	}

	cur := appCfg.General.Currency
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			cli.FormatMoney(cur, info.GrossSalary),
			cli.FormatNumber(int64(info.Count)),
			cli.FormatMoney(cur, info.Total),
			info.SavedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Snapshots",
		Headers: []string{"Name", "Gross", "Items", "Total", "Saved"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	s, err := openSnapshots()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Delete(cmd.Context(), args[0]); err != nil {
		return snapshotErr(err, args[0])
	}
	fmt.Printf("  Deleted snapshot %q\n", args[0])
	return nil
}

func snapshotErr(err error, name string) error {
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return fmt.Errorf("no snapshot named %q (see `cbudget snapshot list`)", name)
	}
	return err
}
