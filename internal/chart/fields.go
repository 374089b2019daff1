package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldMapping maps one logical field name to the source field feeding it.
type FieldMapping struct {
	Field  string
	Source string
}

// FieldMappings is an ordered field mapping. It serializes as a JSON object
// whose members keep insertion order.
type FieldMappings []FieldMapping

// Get returns the source mapped to field.
func (m FieldMappings) Get(field string) (string, bool) {
	for _, fm := range m {
		if fm.Field == field {
			return fm.Source, true
		}
	}
	return "", false
}

// Set maps field to source, replacing an existing mapping in place or
// appending a new one.
func (m FieldMappings) Set(field, source string) FieldMappings {
	for i := range m {
		if m[i].Field == field {
			m[i].Source = source
			return m
		}
	}
	return append(m, FieldMapping{Field: field, Source: source})
}

// SameMappings reports whether m and other hold the same key set with equal
// values, ignoring order.
func (m FieldMappings) SameMappings(other FieldMappings) bool {
	if len(m) != len(other) {
		return false
	}
	for _, fm := range m {
		v, ok := other.Get(fm.Field)
		if !ok || v != fm.Source {
			return false
		}
	}
	return true
}

// MarshalJSON writes the mappings as an object in insertion order.
func (m FieldMappings) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fm := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fm.Field)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fm.Source)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping member order. null yields nil.
func (m *FieldMappings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fieldMappings: expected object, got %v", tok)
	}
	out := FieldMappings{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var source string
		if err := dec.Decode(&source); err != nil {
			return fmt.Errorf("fieldMappings.%s: %w", key, err)
		}
		out = out.Set(key, source)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
