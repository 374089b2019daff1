package dashboard

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// namedColors translates the color names dashboard authors use into the
// palette's hex values.
var namedColors = map[string]string{
	"red":        "#EF6B4D",
	"light blue": "#97C1DA",
	"blue":       "#3C5B81",
	"green":      "#1BAA96",
	"teal":       "#E2F4F9",
	"grey":       "#98ACBD",
	"dark green": "#175F68",
	"dark grey":  "#283140",
	"dark blue":  "#002060",
}

// Style metadata keys.
const (
	metaID            = "id"
	metaTitle         = "title"
	metaType          = "type"
	metaColors        = "colors"
	metaFont          = "font"
	metaFontColor     = "font-color"
	metaXAxisFontSize = "x-axis-font-size"
	metaYAxisFontSize = "y-axis-font-size"
	metaShadow        = "shadow"
	metaEffects       = "effects"
	metaDropShadow    = "dropshadow"
)

var pairSeparator = regexp.MustCompile(`(?:;|\r?\n)+`)

// metadata is the parsed key/value annotation of a chart, keeping first-seen
// key order.
type metadata struct {
	keys   []string
	values map[string]string
}

func (m *metadata) get(key string) string {
	if m == nil {
		return ""
	}
	return m.values[key]
}

func (m *metadata) empty() bool {
	return m == nil || len(m.keys) == 0
}

// parseStyleString reads "key: value; key: value" text. Pairs are separated
// by semicolons or newlines; a pair without a colon is split on "=". Keys are
// trimmed and lower-cased.
func parseStyleString(text string) *metadata {
	m := &metadata{values: make(map[string]string)}
	if text == "" {
		return m
	}
	for _, pair := range pairSeparator.Split(text, -1) {
		sep := "="
		if strings.Contains(pair, ":") {
			sep = ":"
		}
		key, value, _ := strings.Cut(pair, sep)
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, seen := m.values[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.values[key] = strings.TrimSpace(value)
	}
	return m
}

// parseTextWidget joins the rich-text inserts of an annotation widget and
// parses them as style metadata. Non-text inserts (embeds) are skipped.
func parseTextWidget(w *widget) *metadata {
	var sb strings.Builder
	for _, rt := range w.Parameters.Content.RichTextContent {
		var s string
		if json.Unmarshal(rt.Insert, &s) == nil {
			sb.WriteString(s)
		}
	}
	return parseStyleString(sb.String())
}

// mapColors splits a comma separated color list and translates named colors.
// Unrecognized names pass through unchanged.
func mapColors(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	colors := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if hex, ok := namedColors[strings.ToLower(p)]; ok {
			colors = append(colors, hex)
			continue
		}
		colors = append(colors, p)
	}
	return colors
}

// normalizeType maps a visualization hint onto the supported chart types.
func normalizeType(hint string) chart.Type {
	if strings.Contains(strings.ToLower(hint), "box") {
		return chart.TypeBoxAndWhisker
	}
	return chart.TypeBar
}

// buildStyle converts metadata into a chart style.
func buildStyle(meta *metadata) chart.Style {
	style := chart.Style{Font: chart.DefaultFont}
	if colors := mapColors(meta.get(metaColors)); len(colors) > 0 {
		style.SeriesColors = colors
	}
	if font := meta.get(metaFont); font != "" {
		style.Font = font
	}
	style.FontColor = meta.get(metaFontColor)
	style.XAxisFontSize = meta.get(metaXAxisFontSize)
	style.YAxisFontSize = meta.get(metaYAxisFontSize)
	if meta.get(metaShadow) == "true" ||
		meta.get(metaEffects) == chart.EffectShadow ||
		meta.get(metaDropShadow) == "true" {
		style.Effects = []string{chart.EffectShadow}
	}
	return style
}
