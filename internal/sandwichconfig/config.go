// Package sandwichconfig loads the optional .sandwich.yaml project config:
// per-project overrides of the cheese analyzer's default thresholds and
// framework hint.
package sandwichconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sandwich-gate/complexity/pkg/types"
)

// Config is the shape of .sandwich.yaml. Every field is optional; a zero
// value means "use the analyzer default".
type Config struct {
	NestingThreshold   *int             `yaml:"nestingThreshold,omitempty"`
	ConceptsPerFn      *int             `yaml:"conceptsPerFn,omitempty"`
	HiddenDepThreshold *int             `yaml:"hiddenDepThreshold,omitempty"`
	Framework          types.Framework  `yaml:"framework,omitempty"`
	ArchetypeOverride  types.Archetype  `yaml:"archetype,omitempty"`
}

// Load reads and parses path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Find walks upward from dir looking for .sandwich.yaml, the way funxy's
// ext.FindConfig locates funxy.yaml. Returns "" if none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ".sandwich.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadNearest finds and loads the nearest .sandwich.yaml to dir, returning
// a zero-value Config (all defaults) when none exists.
func LoadNearest(dir string) (*Config, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return &Config{}, nil
	}
	return Load(path)
}
