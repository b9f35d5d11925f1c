package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/export"
	"github.com/nahidhasan/picklist-export/internal/report"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var (
		objects      []string
		manifestPath string
		outPath      string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "export [objects...]",
		Short: "Export picklist metadata for the given objects",
		Long: `Export resolves the complete picklist value set, active and inactive,
for every picklist field on the given objects and writes one report row
per value.

Objects come from positional arguments, --objects, a --manifest file, or
the EXPORT_OBJECTS environment variable, in that order of preference.
The output format follows the file extension: .csv writes CSV, anything
else writes an Excel workbook.`,
		Example: `  picklist-export export Account Contact
  picklist-export export --manifest picklists.yaml --out out/report.xlsx
  picklist-export export --objects Account,Invoice__c --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, output, err := resolveRunInputs(cfg, args, objects, manifestPath, outPath)
			if err != nil {
				return err
			}

			client, err := newOrgClient(cfg)
			if err != nil {
				return err
			}

			// Ctrl-C requests a cooperative stop between objects; the
			// partial report is still written.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}

			started := time.Now()
			svc := export.NewService(client, report.ForPath(output), consoleObserver{verbose: verbose})
			path, stats, err := svc.Export(ctx, names, output)
			if err != nil {
				return err
			}

			printStatistics(cmd.OutOrStdout(), stats, path, time.Since(started))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&objects, "objects", nil, "comma-separated object API names")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest listing objects to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output file path (.xlsx or .csv)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per-strategy resolution detail")

	return cmd
}

// resolveRunInputs merges the object list and output path from arguments,
// flags, the manifest and configuration.
func resolveRunInputs(cfg *config.Config, args, flagObjects []string, manifestPath, outPath string) ([]string, string, error) {
	names := append(append([]string{}, args...), flagObjects...)
	output := outPath

	if manifestPath == "" {
		manifestPath = cfg.Export.ManifestPath
	}
	if len(names) == 0 && manifestPath != "" {
		m, err := config.LoadManifest(manifestPath)
		if err != nil {
			return nil, "", err
		}
		names = m.Objects
		if output == "" {
			output = m.Output
		}
	}
	if len(names) == 0 {
		names = cfg.Export.Objects
	}
	if len(names) == 0 {
		return nil, "", fmt.Errorf("no objects to export: pass object names, --objects, --manifest or EXPORT_OBJECTS")
	}

	if output == "" {
		output = filepath.Join(cfg.Export.OutputDir,
			fmt.Sprintf("Picklist_Export_%s.xlsx", time.Now().Format("20060102_150405")))
	}
	return names, output, nil
}

// consoleObserver prints run progress to stdout with timestamps. Verbose
// lines are suppressed unless requested.
type consoleObserver struct {
	verbose bool
}

func (o consoleObserver) Log(message string, verbose bool) {
	if verbose && !o.verbose {
		return
	}
	fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), message)
}

func (o consoleObserver) Progress(current, total int) {}
