package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/history"
)

func newRunsCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent export runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.HistoryEnabled() {
				return fmt.Errorf("run history requires DATABASE_URL to be set")
			}

			store, err := history.Open(cmd.Context(), cfg.Database.URL, cfg.Database.MaxConns)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tDURATION\tOBJECTS\tFIELDS\tVALUES\tFAILED\tCANCELLED\tOUTPUT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%t\t%s\n",
					run.StartedAt.Format("2006-01-02 15:04:05"),
					formatRuntime(run.Duration),
					run.Stats.TotalObjects,
					run.Stats.TotalPicklistFields,
					run.Stats.TotalValues,
					run.Stats.FailedObjects,
					run.Stats.Cancelled,
					run.OutputPath,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}
