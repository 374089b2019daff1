package patch

import (
	"errors"
	"fmt"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/component"
	"github.com/andbeder/PurpleFox/internal/jslit"
)

// PatchSettings applies changes to the chart settings object of a component
// and returns the rewritten source. Only the settings statement is replaced;
// initChart calls are retargeted when a chart's type changes.
func PatchSettings(js string, changes []chart.Change) (string, error) {
	span, err := jslit.Locate(js, component.SettingsMarker)
	if errors.Is(err, jslit.ErrMarkerNotFound) || errors.Is(err, jslit.ErrUnbalanced) {
		return "", fmt.Errorf("%w: %v", chart.ErrPatchTargetNotFound, err)
	}
	if err != nil {
		return "", err
	}
	settings, err := jslit.Parse(span.Text(js))
	if err != nil {
		return "", fmt.Errorf("%w: chart settings: %v", chart.ErrMalformedInput, err)
	}
	if settings.Kind != jslit.Object {
		return "", fmt.Errorf("%w: chart settings is %s, want object", chart.ErrMalformedInput, settings.Kind)
	}

	retype := make(map[string]chart.Type)
	for _, c := range changes {
		key := entryKey(settings, c.ChartID)
		switch c.Action {
		case chart.ActionRemove:
			settings.Delete(key)
		case chart.ActionAdd, chart.ActionUpdate:
			entry := settings.Get(key)
			if entry == nil || entry.Kind != jslit.Object {
				entry = jslit.NewObject()
				settings.Set(key, entry)
			}
			for _, m := range c.Mismatches {
				typ, err := applyMismatch(entry, m)
				if err != nil {
					return "", fmt.Errorf("chart %s: %w", c.ChartID, err)
				}
				if typ != "" {
					retype[key] = typ
				}
			}
		}
	}

	out := js[:span.Open] + jslit.Format(settings, span.Indent(js)) + ";" + js[span.End:]
	for name, typ := range retype {
		out = component.RetargetPreset(out, name, typ)
	}
	return out, nil
}

// entryKey returns the settings key naming id: an exact match, else the
// first key with the same normalized id, else id itself.
func entryKey(settings *jslit.Value, id string) string {
	if settings.Get(id) != nil {
		return id
	}
	norm := chart.NormalizeID(id)
	for _, m := range settings.Members {
		if chart.NormalizeID(m.Key) == norm {
			return m.Key
		}
	}
	return id
}

// applyMismatch merges the expected value onto a settings entry. It returns
// the new chart type when the mismatch changes it.
func applyMismatch(entry *jslit.Value, m chart.Mismatch) (chart.Type, error) {
	switch m.Property {
	case chart.PropDashboard, chart.PropTitle, chart.PropQuery:
		var s string
		if err := m.DecodeExpected(&s); err != nil {
			return "", err
		}
		setOrDelete(entry, m.Property, s)

	case chart.PropType:
		var typ chart.Type
		if err := m.DecodeExpected(&typ); err != nil {
			return "", err
		}
		setOrDelete(entry, "type", string(typ))
		return typ, nil

	case chart.PropFieldMappings:
		var fm chart.FieldMappings
		if err := m.DecodeExpected(&fm); err != nil {
			return "", err
		}
		v, err := jslit.FromAny(fm)
		if err != nil {
			return "", err
		}
		entry.Set("fieldMappings", v)

	case chart.PropStyle:
		var style chart.Style
		if err := m.DecodeExpected(&style); err != nil {
			return "", err
		}
		if err := setList(entry, "colors", style.SeriesColors); err != nil {
			return "", err
		}
		if err := setList(entry, "effects", style.Effects); err != nil {
			return "", err
		}
		font := style.Font
		if font == chart.DefaultFont {
			font = ""
		}
		setOrDelete(entry, "font", font)
		setOrDelete(entry, "fontColor", style.FontColor)
		setOrDelete(entry, "xAxisFontSize", style.XAxisFontSize)
		setOrDelete(entry, "yAxisFontSize", style.YAxisFontSize)

	default:
		return "", fmt.Errorf("%w: unknown property %q", chart.ErrMalformedInput, m.Property)
	}
	return "", nil
}

func setOrDelete(entry *jslit.Value, key, s string) {
	if s == "" {
		entry.Delete(key)
		return
	}
	entry.Set(key, jslit.NewString(s))
}

func setList(entry *jslit.Value, key string, items []string) error {
	if len(items) == 0 {
		entry.Delete(key)
		return nil
	}
	v, err := jslit.FromAny(items)
	if err != nil {
		return err
	}
	entry.Set(key, v)
	return nil
}
