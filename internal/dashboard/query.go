package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// queryDescriptor is the compact structured query stored on steps.
type queryDescriptor struct {
	SourceFilters orderedFilters `json:"sourceFilters"`
	Sources       []querySource  `json:"sources"`
	Orders        []queryOrder   `json:"orders"`
	Limit         int            `json:"limit"`
}

type querySource struct {
	Groups  []json.RawMessage `json:"groups"`
	Columns []queryColumn     `json:"columns"`
}

type queryColumn struct {
	Field   []string `json:"field"`
	Formula string   `json:"formula"`
	Name    string   `json:"name"`
}

type queryOrder struct {
	Name      string `json:"name"`
	Ascending bool   `json:"ascending"`
}

type filter struct {
	dimension string
	condition json.RawMessage
}

// orderedFilters decodes the sourceFilters object keeping member order.
type orderedFilters []filter

func (f *orderedFilters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sourceFilters: expected object, got %v", tok)
	}
	var out orderedFilters
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var cond json.RawMessage
		if err := dec.Decode(&cond); err != nil {
			return fmt.Errorf("sourceFilters.%s: %w", key, err)
		}
		out = append(out, filter{dimension: key, condition: cond})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

// renderQuery converts a step query into SAQL text. A query held as a JSON
// string is already SAQL and is returned as is.
func renderQuery(raw json.RawMessage, datasetID string) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", err
		}
		return text, nil
	}

	var q queryDescriptor
	if err := json.Unmarshal(trimmed, &q); err != nil {
		return "", fmt.Errorf("decoding query: %w", err)
	}

	lines := []string{fmt.Sprintf("q = load %q;", datasetID)}

	if len(q.SourceFilters) > 0 {
		conds := make([]string, 0, len(q.SourceFilters))
		for _, f := range q.SourceFilters {
			conds = append(conds, renderFilter(f))
		}
		lines = append(lines, fmt.Sprintf("q = filter q by %s;", strings.Join(conds, " and ")))
	}

	var src querySource
	if len(q.Sources) > 0 {
		src = q.Sources[0]
	}

	groups := make([]string, 0, len(src.Groups))
	for _, g := range src.Groups {
		groups = append(groups, rawText(g))
	}
	if len(groups) == 0 {
		groups = append(groups, "all")
	}
	lines = append(lines, fmt.Sprintf("q = group q by %s;", strings.Join(groups, ", ")))

	aggs := make([]string, 0, len(src.Columns))
	for _, c := range src.Columns {
		switch {
		case len(c.Field) >= 2:
			aggs = append(aggs, fmt.Sprintf("%s(%s) as %s", c.Field[0], c.Field[1], c.Name))
		case len(c.Field) == 1:
			aggs = append(aggs, fmt.Sprintf("%s() as %s", c.Field[0], c.Name))
		case c.Formula != "":
			aggs = append(aggs, fmt.Sprintf("%s as %s", c.Formula, c.Name))
		}
	}
	lines = append(lines, fmt.Sprintf("q = foreach q generate %s;", strings.Join(aggs, ", ")))

	if len(q.Orders) > 0 {
		dir := "desc"
		if q.Orders[0].Ascending {
			dir = "asc"
		}
		lines = append(lines, fmt.Sprintf("q = order q by %s %s;", q.Orders[0].Name, dir))
	}

	if q.Limit > 0 {
		lines = append(lines, "q = limit q "+strconv.Itoa(q.Limit)+";")
	}

	return strings.Join(lines, "\n"), nil
}

// renderFilter renders one filter condition. Strings compare with ==, lists
// become an "in" test, anything else is compared against its JSON text.
func renderFilter(f filter) string {
	trimmed := bytes.TrimSpace(f.condition)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if json.Unmarshal(trimmed, &items) == nil {
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = compact(it)
			}
			return fmt.Sprintf("%s in [%s]", f.dimension, strings.Join(parts, ", "))
		}
	}
	return fmt.Sprintf("%s == %s", f.dimension, compact(trimmed))
}

// rawText returns a JSON string's content, or the compact JSON of any other
// value.
func rawText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return compact(raw)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
