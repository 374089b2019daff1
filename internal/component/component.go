// Package component reads the chart configuration embedded in the generated
// dynamicCharts Lightning web component and reports it as canonical chart
// definitions.
package component

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/jslit"
)

// SettingsMarker precedes the chart settings object literal in the
// component's JavaScript.
const SettingsMarker = "chartSettings ="

// Preset option sets passed to initChart and the chart type each implies.
var presetTypes = map[string]chart.Type{
	"chartAOptions":   chart.TypeBar,
	"chartBoxOptions": chart.TypeBoxAndWhisker,
}

// initChartCall matches this.initChart(".Selector", this.preset, "Name").
var initChartCall = regexp.MustCompile(
	`this\.initChart\(\s*["']\.([\w-]+)["']\s*,\s*this\.(\w+)\s*,\s*["']([\w-]+)["']\s*\)`)

// Settings is one entry of the chart settings object.
type Settings struct {
	Dashboard     string              `json:"dashboard"`
	Title         string              `json:"title"`
	FieldMappings chart.FieldMappings `json:"fieldMappings"`
	Colors        []string            `json:"colors"`
	Effects       []string            `json:"effects"`
	Font          string              `json:"font"`
	FontColor     string              `json:"fontColor"`
	XAxisFontSize string              `json:"xAxisFontSize"`
	YAxisFontSize string              `json:"yAxisFontSize"`
	Query         string              `json:"query"`
	Type          chart.Type          `json:"type"`
}

// Extractor reads component sources.
type Extractor struct {
	Logger *zap.Logger
}

// ExtractFiles reads the component's JavaScript and markup files. Both must
// exist; only the JavaScript carries chart configuration.
func (e *Extractor) ExtractFiles(jsPath, htmlPath string) (*chart.Set, error) {
	js, err := chart.ReadFile(jsPath)
	if err != nil {
		return nil, fmt.Errorf("component JS: %w", err)
	}
	if _, err := chart.ReadFile(htmlPath); err != nil {
		return nil, fmt.Errorf("component HTML: %w", err)
	}
	return e.Extract(string(js))
}

// Extract returns one definition per chart settings entry, in source order.
// A source without the settings marker yields an empty set.
func (e *Extractor) Extract(js string) (*chart.Set, error) {
	set := &chart.Set{Charts: []chart.Definition{}}

	settings, err := ParseSettings(js)
	if errors.Is(err, jslit.ErrMarkerNotFound) {
		e.logger().Debug("no chart settings in component")
		return set, nil
	}
	if err != nil {
		return nil, err
	}

	types := PresetTypes(js)
	for _, m := range settings.Members {
		var s Settings
		if err := m.Value.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: chart settings %q: %v", chart.ErrMalformedInput, m.Key, err)
		}

		typ, ok := types[m.Key]
		if !ok {
			typ = s.Type
		}
		if typ != chart.TypeBoxAndWhisker {
			typ = chart.TypeBar
		}

		font := s.Font
		if font == "" {
			font = chart.DefaultFont
		}

		set.Charts = append(set.Charts, chart.Definition{
			Dashboard:     s.Dashboard,
			ID:            m.Key,
			Type:          typ,
			Title:         s.Title,
			FieldMappings: s.FieldMappings,
			Query:         s.Query,
			Style: chart.Style{
				SeriesColors:  s.Colors,
				Font:          font,
				FontColor:     s.FontColor,
				XAxisFontSize: s.XAxisFontSize,
				YAxisFontSize: s.YAxisFontSize,
				Effects:       s.Effects,
			},
		})
	}

	if _, err := set.Index(); err != nil {
		return nil, err
	}
	e.logger().Debug("read component charts", zap.Int("count", len(set.Charts)))
	return set, nil
}

// ParseSettings locates and parses the chart settings object. A missing
// marker is reported as jslit.ErrMarkerNotFound; any other failure is
// chart.ErrMalformedInput.
func ParseSettings(js string) (*jslit.Value, error) {
	span, err := jslit.Locate(js, SettingsMarker)
	if errors.Is(err, jslit.ErrMarkerNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chart.ErrMalformedInput, err)
	}
	v, err := jslit.Parse(span.Text(js))
	if err != nil {
		return nil, fmt.Errorf("%w: chart settings: %v", chart.ErrMalformedInput, err)
	}
	if v.Kind != jslit.Object {
		return nil, fmt.Errorf("%w: chart settings is %s, want object", chart.ErrMalformedInput, v.Kind)
	}
	return v, nil
}

// PresetTypes maps each chart name passed to initChart to the type implied
// by its preset. Unknown presets map to bar. A later call for the same name
// wins.
func PresetTypes(js string) map[string]chart.Type {
	types := make(map[string]chart.Type)
	for _, m := range initChartCall.FindAllStringSubmatch(js, -1) {
		typ, ok := presetTypes[m[2]]
		if !ok {
			typ = chart.TypeBar
		}
		types[m[3]] = typ
	}
	return types
}

// RetargetPreset rewrites the preset argument of every initChart call for
// name and its "AO" companion so the chart renders as typ.
func RetargetPreset(js, name string, typ chart.Type) string {
	preset := "chartAOptions"
	if typ == chart.TypeBoxAndWhisker {
		preset = "chartBoxOptions"
	}
	return initChartCall.ReplaceAllStringFunc(js, func(call string) string {
		m := initChartCall.FindStringSubmatchIndex(call)
		if target := call[m[6]:m[7]]; target != name && target != name+"AO" {
			return call
		}
		return call[:m[4]] + preset + call[m[5]:]
	})
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
