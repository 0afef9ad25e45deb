package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"skinsight/domain/compat"
)

// tablesFile is the on-disk schema of the compatibility-table override:
// an ingredient adjacency list per relation.
type tablesFile struct {
	Conflicts map[string][]string `yaml:"conflicts"`
	Synergies map[string][]string `yaml:"synergies"`
}

// LoadTables reads the compatibility tables from path, or returns the
// built-in defaults when path is empty.
func LoadTables(path string) (*compat.Tables, error) {
	if path == "" {
		return compat.DefaultTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compatibility tables: %w", err)
	}

	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse compatibility tables: %w", err)
	}
	if len(file.Conflicts) == 0 && len(file.Synergies) == 0 {
		return nil, fmt.Errorf("compatibility tables %s define no relations", path)
	}

	return compat.NewTables(compat.Relation(file.Conflicts), compat.Relation(file.Synergies)), nil
}
