// Package ledger implements the style ledger: an append-only text file that
// records every style-metadata key the dashboard extractor has seen, one
// "key - description" line per key.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const separator = " - "

// File is a style ledger backed by a text file. Existing lines are read once
// when the ledger is opened; Record appends to the file and to the in-memory
// index.
type File struct {
	path    string
	entries map[string]string
}

// Open loads the ledger at path. A missing file is an empty ledger; it is
// created on the first Record.
func Open(path string) (*File, error) {
	f := &File{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading style ledger %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		key, desc, _ := strings.Cut(line, separator)
		if _, seen := f.entries[key]; !seen {
			f.entries[key] = desc
		}
	}
	return f, nil
}

// Path returns the ledger's file path.
func (f *File) Path() string {
	return f.path
}

// Lookup returns the recorded description for key.
func (f *File) Lookup(key string) (string, bool) {
	desc, ok := f.entries[key]
	return desc, ok
}

// Record appends key with its description. Keys already present are left
// untouched so the file stays append-only with one line per key.
func (f *File) Record(key, description string) error {
	if _, ok := f.entries[key]; ok {
		return nil
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	out, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening style ledger %s: %w", f.path, err)
	}
	defer out.Close()

	if _, err := fmt.Fprintf(out, "%s%s%s\n", key, separator, description); err != nil {
		return fmt.Errorf("appending to style ledger: %w", err)
	}
	f.entries[key] = description
	return nil
}

// Memory is an in-memory ledger, useful when no file should be touched.
type Memory map[string]string

// Lookup returns the recorded description for key.
func (m Memory) Lookup(key string) (string, bool) {
	desc, ok := m[key]
	return desc, ok
}

// Record stores key with its description unless already present.
func (m Memory) Record(key, description string) error {
	if _, ok := m[key]; !ok {
		m[key] = description
	}
	return nil
}
