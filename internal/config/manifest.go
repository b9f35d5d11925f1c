package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is a YAML file listing the objects to export, so that long
// object lists can live in version control instead of flags.
//
//	objects:
//	  - Account
//	  - Contact
//	  - Invoice__c
//	output: picklists.xlsx
type Manifest struct {
	Objects []string `yaml:"objects"`
	Output  string   `yaml:"output,omitempty"`
}

// LoadManifest reads and validates an export manifest. Object names are
// trimmed and deduplicated preserving first-seen order.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	seen := make(map[string]bool, len(m.Objects))
	objects := make([]string, 0, len(m.Objects))
	for _, name := range m.Objects {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		objects = append(objects, name)
	}
	m.Objects = objects

	if len(m.Objects) == 0 {
		return nil, fmt.Errorf("manifest %s lists no objects", path)
	}
	return &m, nil
}
