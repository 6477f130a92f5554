package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile is the top-level structure of a custom rules YAML file. It
// expects a single key "rules" containing an array of rule definitions.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads a single YAML file and returns a validated Catalog.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	c := New()
	for i, r := range rf.Rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d in %s: %w", i, path, err)
		}
		c.Add(r)
	}
	return c, nil
}

// LoadDir reads all .yaml and .yml files in dir and merges them into a
// single Catalog. Files are processed in lexicographic order so that a
// fixed directory layout always produces the same catalog.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules directory %s: %w", dir, err)
	}

	c := New()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		fileCatalog, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		c.Merge(fileCatalog)
	}
	return c, nil
}
