package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
objects:
  - Account
  - " Contact "
  - Account
  - Invoice__c
output: reports/picklists.xlsx
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}

	want := []string{"Account", "Contact", "Invoice__c"}
	if !reflect.DeepEqual(m.Objects, want) {
		t.Errorf("Objects = %v, want trimmed and deduplicated %v", m.Objects, want)
	}
	if got, want := m.Output, "reports/picklists.xlsx"; got != want {
		t.Errorf("Output = %q, want %q", got, want)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "objects: []\n")

	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "no objects") {
		t.Errorf("LoadManifest() error = %v, want a no-objects failure", err)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadManifest() error = nil, want read failure")
	}
}

func TestLoadManifestBadYAML(t *testing.T) {
	path := writeManifest(t, "objects: [unclosed\n")
	if _, err := LoadManifest(path); err == nil {
		t.Error("LoadManifest() error = nil, want parse failure")
	}
}
