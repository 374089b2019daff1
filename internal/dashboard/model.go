package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// document is the subset of the dashboard REST payload the extractor reads.
type document struct {
	ErrorCode any       `json:"errorCode"`
	Message   string    `json:"message"`
	State     state     `json:"state"`
	Datasets  []dataset `json:"datasets"`
}

type errorBody struct {
	ErrorCode any    `json:"errorCode"`
	Message   string `json:"message"`
}

type dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type state struct {
	Steps       map[string]step   `json:"steps"`
	Widgets     map[string]widget `json:"widgets"`
	GridLayouts []gridLayout      `json:"gridLayouts"`
}

type gridLayout struct {
	Pages []page `json:"pages"`
}

type page struct {
	Widgets []layoutEntry `json:"widgets"`
}

type layoutEntry struct {
	Name   string `json:"name"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

type step struct {
	Type  string          `json:"type"`
	Query json.RawMessage `json:"query"`
}

type widget struct {
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Subtitle   string          `json:"subtitle"`
	SAQL       string          `json:"saql"`
	Step       json.RawMessage `json:"step"`
	Properties struct {
		Title string `json:"title"`
	} `json:"properties"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	Title struct {
		Label         string `json:"label"`
		SubtitleLabel string `json:"subtitleLabel"`
	} `json:"title"`
	Step              string     `json:"step"`
	VisualizationType string     `json:"visualizationType"`
	ColumnMap         *columnMap `json:"columnMap"`
	Content           struct {
		RichTextContent []richText `json:"richTextContent"`
	} `json:"content"`
}

type columnMap struct {
	Plots         []string `json:"plots"`
	DimensionAxis []string `json:"dimensionAxis"`
}

type richText struct {
	Insert json.RawMessage `json:"insert"`
}

// stepName returns the step reference of the widget: the step field when it
// is a plain name, else parameters.step.
func (w *widget) stepName() string {
	var name string
	if len(w.Step) > 0 && json.Unmarshal(w.Step, &name) == nil && name != "" {
		return name
	}
	return w.Parameters.Step
}

// inlineStep returns the step object embedded directly on the widget.
func (w *widget) inlineStep() (*step, bool) {
	trimmed := bytes.TrimSpace(w.Step)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var s step
	if err := json.Unmarshal(trimmed, &s); err != nil || len(s.Query) == 0 {
		return nil, false
	}
	return &s, true
}

// decodeDocument parses the dashboard payload, rejecting REST error bodies.
func decodeDocument(data []byte) (*document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var errs []errorBody
		if err := json.Unmarshal(trimmed, &errs); err != nil {
			return nil, fmt.Errorf("parsing dashboard JSON: %w", err)
		}
		if len(errs) > 0 && errs[0].ErrorCode != nil {
			return nil, fmt.Errorf("invalid dashboard JSON: %s", messageOr(errs[0].Message))
		}
		return nil, fmt.Errorf("dashboard JSON is an array, expected an object")
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parsing dashboard JSON: %w", err)
	}
	if doc.ErrorCode != nil {
		return nil, fmt.Errorf("invalid dashboard JSON: %s", messageOr(doc.Message))
	}
	return &doc, nil
}

func messageOr(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	return msg
}
