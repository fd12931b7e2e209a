package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ReconcileCmd creates the reconcile command
func ReconcileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Copy legacy auditions into audition logs once",
		Long: `Copies every row of the legacy auditions table into audition logs,
translating statuses. Runs once: later invocations report why nothing was copied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.App.Auditions.Reconcile(app.Ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Reason != "" {
				fmt.Fprintf(out, "Nothing migrated: %s\n", report.Reason)
				return nil
			}
			fmt.Fprintf(out, "Migrated: %d\n", report.Migrated)
			fmt.Fprintf(out, "Skipped:  %d\n", report.Skipped)
			return nil
		},
	}
}
