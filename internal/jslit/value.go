package jslit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind is the type of a literal value.
type Kind int

// Value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one node of a parsed literal. Numbers keep their source text.
// Object members keep source order.
type Value struct {
	Kind    Kind
	Bool    bool
	Text    string // string content or number text
	Items   []*Value
	Members []*Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{Kind: String, Text: s}
}

// NewObject returns an empty object.
func NewObject() *Value {
	return &Value{Kind: Object}
}

// Get returns the member value for key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.Kind != Object {
		return nil
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value
		}
	}
	return nil
}

// Set replaces the value of key in place, or appends a new member.
func (v *Value) Set(key string, val *Value) {
	for _, m := range v.Members {
		if m.Key == key {
			m.Value = val
			return
		}
	}
	v.Members = append(v.Members, &Member{Key: key, Value: val})
}

// Delete removes key and reports whether it was present.
func (v *Value) Delete(key string) bool {
	for i, m := range v.Members {
		if m.Key == key {
			v.Members = append(v.Members[:i], v.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Str returns the content of a string value, or "" for any other kind.
func (v *Value) Str() string {
	if v == nil || v.Kind != String {
		return ""
	}
	return v.Text
}

// MarshalJSON encodes the value as JSON, keeping member order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(jsonNumber(v.Text))
	case String:
		writeQuoted(buf, v.Text)
	case Array:
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeQuoted(buf, m.Key)
			buf.WriteByte(':')
			if err := m.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jslit: cannot encode %v", v.Kind)
	}
	return nil
}

// Decode unmarshals the value into a Go value through its JSON encoding.
func (v *Value) Decode(target any) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// FromJSON converts JSON text into a Value.
func FromJSON(data []byte) (*Value, error) {
	return Parse(string(data))
}

// FromAny converts a Go value into a Value through its JSON encoding.
func FromAny(x any) (*Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

// jsonNumber rewrites JavaScript number spellings JSON does not accept.
func jsonNumber(text string) string {
	switch {
	case len(text) > 1 && text[0] == '+':
		return jsonNumber(text[1:])
	case len(text) > 0 && text[0] == '.':
		return "0" + text
	case len(text) > 1 && text[0] == '-' && text[1] == '.':
		return "-0" + text[1:]
	case len(text) > 0 && text[len(text)-1] == '.':
		return text[:len(text)-1]
	}
	return text
}

func writeQuoted(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encode appends a newline.
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}
