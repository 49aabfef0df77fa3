package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/flowtts/pkg/cli"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past synthesis jobs",
	Long: `Inspect past synthesis jobs.

Every synthesize run, successful or not, is recorded in a local ledger
under ~/.flowtts/flowtts/data/history.`,
}

var historyLimit int

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs, newest first",
	Long: `List recent jobs, newest first.

Examples:
  flowtts history list -n 5
  flowtts history list --json --query 'map(select(.outcome == "failed"))'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, closeLedger, err := openLedger()
		if err != nil {
			return err
		}
		defer closeLedger()

		records, err := ledger.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 && !outputJSON && query == "" {
			cli.PrintInfo("No history recorded")
			return nil
		}
		return outputResult(records)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, closeLedger, err := openLedger()
		if err != nil {
			return err
		}
		defer closeLedger()

		rec, err := ledger.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputResult(rec)
	},
}

var historyKeep int

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, closeLedger, err := openLedger()
		if err != nil {
			return err
		}
		defer closeLedger()

		n, err := ledger.Prune(cmd.Context(), historyKeep)
		if err != nil {
			return err
		}
		cli.PrintSuccess("Pruned %d job(s)", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of jobs (0 for all)")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "number of newest jobs to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}
