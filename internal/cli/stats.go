package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/nahidhasan/picklist-export/internal/export"
)

// printStatistics writes the end-of-run summary.
func printStatistics(w io.Writer, stats *export.Statistics, path string, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "EXPORT STATISTICS")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintf(w, "Total objects processed:      %d\n", stats.TotalObjects)
	fmt.Fprintf(w, "Successful objects:           %d\n", stats.SuccessfulObjects)
	fmt.Fprintf(w, "Failed objects:               %d\n", stats.FailedObjects)
	fmt.Fprintf(w, "Objects not found:            %d\n", stats.ObjectsNotFound)
	fmt.Fprintf(w, "Objects with picklists:       %d\n", stats.ObjectsWithPicklists)
	fmt.Fprintf(w, "Objects without picklists:    %d\n", stats.ObjectsWithZeroPicklists)
	fmt.Fprintf(w, "Total picklist fields:        %d\n", stats.TotalPicklistFields)
	fmt.Fprintf(w, "Total values exported:        %d\n", stats.TotalValues)
	fmt.Fprintf(w, "  Active values:              %d (%.1f%%)\n", stats.TotalActiveValues, stats.ActivePercent())
	fmt.Fprintf(w, "  Inactive values:            %d (%.1f%%)\n", stats.TotalInactiveValues, stats.InactivePercent())

	if len(stats.FailedObjectDetails) > 0 {
		fmt.Fprintln(w, "\nFailed objects:")
		for _, f := range stats.FailedObjectDetails {
			fmt.Fprintf(w, "  - %s: %s\n", f.Name, f.Reason)
		}
	}
	if len(stats.ObjectsWithoutPicklists) > 0 {
		fmt.Fprintln(w, "\nObjects without picklist fields:")
		for _, name := range stats.ObjectsWithoutPicklists {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	if stats.Cancelled {
		fmt.Fprintln(w, "\nRun was cancelled; the report contains results up to the stop point.")
	}

	fmt.Fprintf(w, "\nRuntime: %s\n", formatRuntime(elapsed))
	fmt.Fprintf(w, "Report:  %s\n", path)
	fmt.Fprintln(w, "============================================================")
}

// formatRuntime renders a duration as HH:MM:SS.
func formatRuntime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
