package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/export"
)

func TestResolveRunInputsPrecedence(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(manifest, []byte("objects: [Lead, Case]\noutput: from-manifest.xlsx\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.Export.OutputDir = "exports"
	cfg.Export.Objects = []string{"FromEnv__c"}

	t.Run("arguments win", func(t *testing.T) {
		names, _, err := resolveRunInputs(cfg, []string{"Account"}, nil, manifest, "")
		if err != nil {
			t.Fatalf("resolveRunInputs() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"Account"}) {
			t.Errorf("names = %v, want arguments to win over the manifest", names)
		}
	})

	t.Run("manifest beats environment", func(t *testing.T) {
		names, output, err := resolveRunInputs(cfg, nil, nil, manifest, "")
		if err != nil {
			t.Fatalf("resolveRunInputs() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"Lead", "Case"}) {
			t.Errorf("names = %v, want the manifest objects", names)
		}
		if output != "from-manifest.xlsx" {
			t.Errorf("output = %q, want the manifest output", output)
		}
	})

	t.Run("environment fallback", func(t *testing.T) {
		names, output, err := resolveRunInputs(cfg, nil, nil, "", "")
		if err != nil {
			t.Fatalf("resolveRunInputs() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"FromEnv__c"}) {
			t.Errorf("names = %v, want the configured objects", names)
		}
		if !strings.HasPrefix(output, "exports/") || !strings.HasSuffix(output, ".xlsx") {
			t.Errorf("output = %q, want a timestamped file under the output dir", output)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		empty := &config.Config{}
		empty.Export.OutputDir = "exports"
		if _, _, err := resolveRunInputs(empty, nil, nil, "", ""); err == nil {
			t.Error("resolveRunInputs() error = nil, want a no-objects failure")
		}
	})

	t.Run("explicit output wins", func(t *testing.T) {
		_, output, err := resolveRunInputs(cfg, nil, nil, manifest, "custom.csv")
		if err != nil {
			t.Fatalf("resolveRunInputs() error = %v", err)
		}
		if output != "custom.csv" {
			t.Errorf("output = %q, want the --out value", output)
		}
	})
}

func TestFormatRuntime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 5*time.Minute + 7*time.Second, "01:05:07"},
	}
	for _, tt := range tests {
		if got := formatRuntime(tt.d); got != tt.want {
			t.Errorf("formatRuntime(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPrintStatisticsSummary(t *testing.T) {
	stats := &export.Statistics{
		TotalObjects:         2,
		SuccessfulObjects:    1,
		FailedObjects:        1,
		ObjectsNotFound:      1,
		ObjectsWithPicklists: 1,
		TotalPicklistFields:  3,
		TotalValues:          10,
		TotalActiveValues:    8,
		TotalInactiveValues:  2,
		FailedObjectDetails:  []export.FailedObject{{Name: "Ghost__c", Reason: "Object does not exist in org"}},
		Cancelled:            true,
	}

	var b strings.Builder
	printStatistics(&b, stats, "out.xlsx", 95*time.Second)
	out := b.String()

	for _, fragment := range []string{
		"Total values exported:        10",
		"8 (80.0%)",
		"2 (20.0%)",
		"Ghost__c: Object does not exist in org",
		"cancelled",
		"00:01:35",
		"out.xlsx",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("summary is missing %q:\n%s", fragment, out)
		}
	}
}
