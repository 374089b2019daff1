package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/andbeder/PurpleFox/internal/apexdocs"
	"github.com/andbeder/PurpleFox/internal/chart"
)

// Ledger is the durable record of style-metadata keys already described.
type Ledger interface {
	Lookup(key string) (string, bool)
	Record(key, description string) error
}

// Describer fetches a short description for a style-metadata key.
type Describer interface {
	Describe(ctx context.Context, key string) (string, error)
}

// IncompletePolicy decides what happens when a chart widget has no
// resolvable title or query.
type IncompletePolicy int

const (
	// AbortDashboard discards the whole extraction pass for the dashboard.
	AbortDashboard IncompletePolicy = iota
	// SkipWidget drops only the incomplete widget.
	SkipWidget
)

// String returns the policy's flag spelling.
func (p IncompletePolicy) String() string {
	switch p {
	case SkipWidget:
		return "skip"
	default:
		return "abort"
	}
}

// ParsePolicy parses a policy flag value.
func ParsePolicy(s string) (IncompletePolicy, error) {
	switch s {
	case "", "abort":
		return AbortDashboard, nil
	case "skip":
		return SkipWidget, nil
	}
	return AbortDashboard, fmt.Errorf("%w: unknown incomplete-widget policy %q (want abort or skip)", chart.ErrMalformedInput, s)
}

// Extractor converts dashboard definitions into canonical chart sets.
// Ledger and Docs are optional; without Docs new keys are recorded with the
// placeholder description.
type Extractor struct {
	Ledger Ledger
	Docs   Describer
	Policy IncompletePolicy
	Logger *zap.Logger
}

// Result is the outcome of one extraction pass.
type Result struct {
	Set *chart.Set
	// Aborted is set when an incomplete widget stopped the pass under
	// AbortDashboard. Set is then empty and must not be persisted.
	Aborted bool
	// AbortedAt names the widget that stopped the pass.
	AbortedAt string
}

// ExtractFile reads <inputDir>/<dashboardName>.json and extracts it.
func (e *Extractor) ExtractFile(ctx context.Context, dashboardName, inputDir string) (*Result, error) {
	if dashboardName == "" {
		return nil, fmt.Errorf("%w: dashboard API name is required", chart.ErrInputNotFound)
	}
	data, err := chart.ReadFile(filepath.Join(inputDir, dashboardName+".json"))
	if err != nil {
		return nil, err
	}
	return e.Extract(ctx, dashboardName, data)
}

// Extract parses a dashboard payload and returns its chart definitions in
// layout order.
func (e *Extractor) Extract(ctx context.Context, dashboardName string, data []byte) (*Result, error) {
	log := e.logger()

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chart.ErrMalformedInput, err)
	}

	var entries []layoutEntry
	if len(doc.State.GridLayouts) > 0 && len(doc.State.GridLayouts[0].Pages) > 0 {
		entries = slices.Clone(doc.State.GridLayouts[0].Pages[0].Widgets)
	}
	slices.SortStableFunc(entries, func(a, b layoutEntry) int {
		return cmp.Or(cmp.Compare(a.Row, b.Row), cmp.Compare(a.Column, b.Column))
	})

	var datasetID string
	if len(doc.Datasets) > 0 {
		datasetID = doc.Datasets[0].ID
	}

	set := &chart.Set{Charts: []chart.Definition{}}
	for i := 0; i < len(entries); i++ {
		name := entries[i].Name
		w, ok := doc.State.Widgets[name]
		if !ok || w.Type == "text" {
			continue
		}

		var meta *metadata
		if i+1 < len(entries) && entries[i+1].Row == entries[i].Row {
			if tw, ok := doc.State.Widgets[entries[i+1].Name]; ok && tw.Type == "text" {
				meta = parseTextWidget(&tw)
				i++
			}
		}
		if meta.empty() {
			subtitle := w.Subtitle
			if subtitle == "" {
				subtitle = w.Parameters.Title.SubtitleLabel
			}
			meta = parseStyleString(subtitle)
		}
		if err := e.recordKeys(ctx, meta); err != nil {
			return nil, err
		}

		query, err := resolveQuery(&w, doc.State.Steps, datasetID)
		if err != nil {
			return nil, fmt.Errorf("%w: widget %s: %v", chart.ErrMalformedInput, name, err)
		}

		widgetTitle := cmp.Or(w.Title, w.Parameters.Title.Label, w.Properties.Title)
		if widgetTitle == "" || query == "" {
			if e.Policy == SkipWidget {
				log.Warn("skipping incomplete widget", zap.String("widget", name))
				continue
			}
			log.Warn("incomplete widget, abandoning dashboard",
				zap.String("dashboard", dashboardName), zap.String("widget", name))
			return &Result{Set: &chart.Set{Charts: []chart.Definition{}}, Aborted: true, AbortedAt: name}, nil
		}

		id := meta.get(metaID)
		if id == "" {
			id = chart.NormalizeID(widgetTitle)
		}

		def := chart.Definition{
			Dashboard:     dashboardName,
			ID:            id,
			Type:          normalizeType(cmp.Or(meta.get(metaType), w.Parameters.VisualizationType, w.Type)),
			Title:         cmp.Or(meta.get(metaTitle), widgetTitle),
			FieldMappings: fieldMappings(&w),
			Query:         query,
			Style:         buildStyle(meta),
		}
		log.Debug("extracted chart", zap.String("id", def.ID), zap.String("type", string(def.Type)))
		set.Charts = append(set.Charts, def)
	}

	if _, err := set.Index(); err != nil {
		return nil, err
	}
	return &Result{Set: set}, nil
}

// resolveQuery picks the widget's SAQL: inline text, then an inline step,
// then the shared step table.
func resolveQuery(w *widget, steps map[string]step, datasetID string) (string, error) {
	if w.SAQL != "" {
		return w.SAQL, nil
	}
	if s, ok := w.inlineStep(); ok {
		return renderQuery(s.Query, datasetID)
	}
	if s, ok := steps[w.stepName()]; ok {
		return renderQuery(s.Query, datasetID)
	}
	return "", nil
}

// fieldMappings maps each plotted measure and dimension to itself, measures
// first.
func fieldMappings(w *widget) chart.FieldMappings {
	m := chart.FieldMappings{}
	cm := w.Parameters.ColumnMap
	if cm == nil {
		return m
	}
	for _, f := range cm.Plots {
		m = m.Set(f, f)
	}
	for _, f := range cm.DimensionAxis {
		m = m.Set(f, f)
	}
	return m
}

// recordKeys writes unseen metadata keys to the ledger. A failed
// documentation lookup falls back to the placeholder description.
func (e *Extractor) recordKeys(ctx context.Context, meta *metadata) error {
	if e.Ledger == nil || meta.empty() {
		return nil
	}
	for _, key := range meta.keys {
		if _, ok := e.Ledger.Lookup(key); ok {
			continue
		}
		desc := apexdocs.Placeholder
		if e.Docs != nil {
			d, err := e.Docs.Describe(ctx, key)
			if err != nil {
				e.logger().Warn("documentation lookup failed", zap.String("key", key), zap.Error(err))
			} else if d != "" {
				desc = d
			}
		}
		if err := e.Ledger.Record(key, desc); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
