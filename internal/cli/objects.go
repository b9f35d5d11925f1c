package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

func newObjectsCmd(cfg *config.Config) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List the org's queryable objects",
		Long: `Objects prints the API names of queryable, non-deprecated objects in
the org, one per line. Pipe the output into a manifest or back into the
export command.`,
		Example: `  picklist-export objects --filter custom
  picklist-export export $(picklist-export objects --filter standard)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := salesforce.ObjectFilter(filter)
			switch f {
			case salesforce.FilterAll, salesforce.FilterStandard, salesforce.FilterCustom:
			default:
				return fmt.Errorf("invalid --filter %q: must be all, standard or custom", filter)
			}

			client, err := newOrgClient(cfg)
			if err != nil {
				return err
			}

			names, err := client.ListObjects(cmd.Context(), f)
			if err != nil {
				return err
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "object subset: all, standard or custom")
	return cmd
}
