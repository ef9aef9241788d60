package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alvesdmateus/resume-deploy/internal/state"
	"github.com/alvesdmateus/resume-deploy/pkg/database"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded deployment runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			cmd.Println("Deployment history is disabled in the configuration.")
			return nil
		}

		db, err := database.Open(database.Config{Driver: cfg.History.Driver, DSN: cfg.History.DSN})
		if err != nil {
			return fmt.Errorf("opening deployment history: %w", err)
		}
		defer database.Close(db)

		if err := database.Migrate(db, &state.DeployRun{}); err != nil {
			return err
		}

		runs, err := state.NewRepository(db).ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			cmd.Println("No deployments recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tAPP\tSTATUS\tCOMMIT\tDETAIL")
		for _, run := range runs {
			detail := run.Message
			if run.Status == state.StatusFailed && run.FailedStep != "" {
				detail = fmt.Sprintf("%s: %s", run.FailedStep, run.Message)
			}
			sha := run.GitSHA
			if len(sha) > 8 {
				sha = sha[:8]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				run.StartedAt.Format("2006-01-02 15:04"),
				run.AppName,
				run.Status,
				sha,
				detail,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
}
