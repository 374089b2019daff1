package chart

import (
	"fmt"
	"slices"
)

// Type is the normalized visualization type of a chart.
type Type string

// Supported chart types.
const (
	TypeBar           Type = "bar"
	TypeBoxAndWhisker Type = "box-and-whisker"
)

// DefaultFont is the sentinel font recorded when no font is configured.
const DefaultFont = "default"

// EffectShadow is the only visual effect tag currently recognized.
const EffectShadow = "shadow"

// Definition is the canonical record for one chart. Both the dashboard and
// the generated component produce this same shape.
type Definition struct {
	Dashboard     string        `json:"dashboard"`
	ID            string        `json:"id"`
	Type          Type          `json:"type"`
	Title         string        `json:"title"`
	FieldMappings FieldMappings `json:"fieldMappings"`
	Query         string        `json:"query,omitempty"`
	Style         Style         `json:"style"`
}

// NormalizedID returns the identity used for cross-source matching.
func (d Definition) NormalizedID() string {
	return NormalizeID(d.ID)
}

// Style holds the presentation settings of a chart.
type Style struct {
	SeriesColors  []string `json:"seriesColors,omitempty"`
	Font          string   `json:"font,omitempty"`
	FontColor     string   `json:"fontColor,omitempty"`
	XAxisFontSize string   `json:"xAxisFontSize,omitempty"`
	YAxisFontSize string   `json:"yAxisFontSize,omitempty"`
	Effects       []string `json:"effects,omitempty"`
}

// HasEffect reports whether tag is among the style's effects.
func (s Style) HasEffect(tag string) bool {
	return slices.Contains(s.Effects, tag)
}

// Set is an ordered collection of chart definitions, the content of a
// canonical chart-set file.
type Set struct {
	Charts []Definition `json:"charts"`
}

// Index maps each chart's normalized id to its position in the set.
// Two charts with the same normalized id are ErrMalformedInput.
func (s *Set) Index() (map[string]int, error) {
	index := make(map[string]int, len(s.Charts))
	for i, c := range s.Charts {
		key := c.NormalizedID()
		if prev, ok := index[key]; ok {
			return nil, fmt.Errorf("%w: charts %q and %q share normalized id %q",
				ErrMalformedInput, s.Charts[prev].ID, c.ID, key)
		}
		index[key] = i
	}
	return index, nil
}
