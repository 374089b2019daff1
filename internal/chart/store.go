package chart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// LoadSet reads and validates a canonical chart-set file. Comments and
// trailing commas are allowed.
func LoadSet(path string) (*Set, error) {
	var set Set
	if err := loadValidated(path, SchemaCharts, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// WriteSet writes a canonical chart-set file as indented JSON.
func WriteSet(path string, set *Set) error {
	if set.Charts == nil {
		set = &Set{Charts: []Definition{}}
	}
	return writeJSON(path, set)
}

// LoadChangeSet reads and validates a change-set file.
func LoadChangeSet(path string) (*ChangeSet, error) {
	var cs ChangeSet
	if err := loadValidated(path, SchemaChanges, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// WriteChangeSet writes a change-set file as indented JSON.
func WriteChangeSet(path string, cs *ChangeSet) error {
	if cs.Changes == nil {
		cs = &ChangeSet{Changes: []Change{}}
	}
	return writeJSON(path, cs)
}

// ReadFile reads path, classifying a missing file as ErrInputNotFound.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

func loadValidated(path string, schema Schema, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	data = jsonc.ToJSON(data)

	result, err := Validate(schema, data)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return fmt.Errorf("%w: %s: %s", ErrMalformedInput, path, result)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrMalformedInput, path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
