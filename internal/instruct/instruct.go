// Package instruct renders a change set as numbered, human-readable steps
// for a developer applying the changes by hand.
package instruct

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// Render returns one numbered line per instruction, newline terminated. The
// output depends only on the change set.
func Render(cs *chart.ChangeSet) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf("%d. ", len(lines)+1)+fmt.Sprintf(format, args...))
	}

	for _, c := range cs.Changes {
		switch c.Action {
		case chart.ActionUpdate:
			for _, m := range c.Mismatches {
				renderMismatch(c, m, add)
			}
		case chart.ActionRemove:
			add("Remove the <div class='chart-%s'>...</div> block from dynamicCharts.html.", c.ChartID)
			add("Remove the corresponding SAQL and render call for %s in dynamicCharts.js.", c.ChartID)
		case chart.ActionAdd:
			add("Add markup for %s to dynamicCharts.html.", c.ChartID)
			add("Add initialization and rendering logic for %s in dynamicCharts.js.", c.ChartID)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderMismatch(c chart.Change, m chart.Mismatch, add func(string, ...any)) {
	switch m.Property {
	case chart.PropTitle:
		add("In %s, update %s title using chart.updateOptions({ title: { text: %s } });",
			c.TargetArtifact, c.ChartID, formatValue(m.Expected))

	case chart.PropStyle:
		var cur, exp chart.Style
		// Undecodable styles render no style steps.
		_ = m.DecodeCurrent(&cur)
		_ = m.DecodeExpected(&exp)

		if len(exp.SeriesColors) > 0 && !slices.Equal(exp.SeriesColors, cur.SeriesColors) {
			add(`In %s, set %s ApexCharts option "colors" to [%s].`,
				c.TargetArtifact, c.ChartID, colorList(exp.SeriesColors))
		}
		if exp.Font != "" && exp.Font != chart.DefaultFont && exp.Font != cur.Font {
			add(`In %s, set %s option "chart.fontFamily" to "%s".`, c.TargetArtifact, c.ChartID, exp.Font)
		}
		if exp.HasEffect(chart.EffectShadow) && !cur.HasEffect(chart.EffectShadow) {
			add("In %s, enable drop shadow for %s by setting chart.dropShadow options.",
				c.TargetArtifact, c.ChartID)
		}

	default:
		add("In %s, update %s %s from %s to %s.",
			c.TargetArtifact, c.ChartID, m.Property, formatValue(m.Current), formatValue(m.Expected))
	}
}

// formatValue double-quotes strings and prints anything else as compact
// JSON. An absent value prints as undefined.
func formatValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "undefined"
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return `"` + s + `"`
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func colorList(colors []string) string {
	quoted := make([]string, len(colors))
	for i, c := range colors {
		quoted[i] = "'" + c + "'"
	}
	return strings.Join(quoted, ", ")
}

// WriteFile renders cs to path, creating parent directories.
func WriteFile(path string, cs *chart.ChangeSet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(cs)), 0644); err != nil {
		return fmt.Errorf("writing instructions %s: %w", path, err)
	}
	return nil
}
