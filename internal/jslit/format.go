package jslit

import (
	"bytes"
	"regexp"
)

var bareKey = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Format prints v with a two-space indent per level. Lines after the first
// are prefixed with prefix so the literal lines up with the statement it
// sits in. Keys are printed bare when they are valid identifiers.
func Format(v *Value, prefix string) string {
	var buf bytes.Buffer
	format(&buf, v, prefix)
	return buf.String()
}

func format(buf *bytes.Buffer, v *Value, indent string) {
	if v == nil {
		buf.WriteString("null")
		return
	}
	inner := indent + "  "
	switch v.Kind {
	case Array:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, it := range v.Items {
			buf.WriteString(inner)
			format(buf, it, inner)
			if i < len(v.Items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteByte(']')
	case Object:
		if len(v.Members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i, m := range v.Members {
			buf.WriteString(inner)
			if bareKey.MatchString(m.Key) {
				buf.WriteString(m.Key)
			} else {
				writeQuoted(buf, m.Key)
			}
			buf.WriteString(": ")
			format(buf, m.Value, inner)
			if i < len(v.Members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent)
		buf.WriteByte('}')
	default:
		// Scalars cannot fail to encode.
		_ = v.writeJSON(buf)
	}
}
