// Package cli wires the exporter's commands: one-shot exports, org object
// listing, run history and the web server.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// Execute builds the command tree and runs it.
func Execute(cfg *config.Config) error {
	root := &cobra.Command{
		Use:   "picklist-export",
		Short: "Export Salesforce picklist metadata to a spreadsheet",
		Long: `picklist-export reads picklist field metadata from a Salesforce org
and writes every field's values, including inactive ones, to an Excel or
CSV report.

The org session is taken from SF_INSTANCE_URL and SF_ACCESS_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newExportCmd(cfg),
		newObjectsCmd(cfg),
		newServeCmd(cfg),
		newRunsCmd(cfg),
	)

	return root.Execute()
}

// newOrgClient validates the session handle and builds an API client.
func newOrgClient(cfg *config.Config) (*salesforce.Client, error) {
	if err := cfg.RequireSession(); err != nil {
		return nil, err
	}
	return salesforce.NewClient(salesforce.Config{
		InstanceURL: cfg.Salesforce.InstanceURL,
		AccessToken: cfg.Salesforce.AccessToken,
		APIVersion:  cfg.Salesforce.APIVersion,
		Timeout:     cfg.Salesforce.CallTimeout,
	}), nil
}
