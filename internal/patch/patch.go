// Package patch applies a change set to the generated component: the chart
// settings object in its JavaScript and the chart pages in its template.
package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// Patcher rewrites component files in place.
type Patcher struct {
	Logger *zap.Logger
}

// Result counts the changes a patch run applied and skipped.
type Result struct {
	Applied int
	Skipped int
}

// PatchFiles applies cs to the component at jsPath and htmlPath. Changes
// whose target artifact is not the JavaScript file's base name are skipped.
// Both files are rewritten only after both patches succeed.
func (p *Patcher) PatchFiles(cs *chart.ChangeSet, jsPath, htmlPath string) (*Result, error) {
	log := p.logger()

	js, err := chart.ReadFile(jsPath)
	if err != nil {
		return nil, fmt.Errorf("component JS: %w", err)
	}
	markup, err := chart.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("component HTML: %w", err)
	}

	target := filepath.Base(jsPath)
	var changes []chart.Change
	res := &Result{}
	for _, c := range cs.Changes {
		if c.TargetArtifact != target {
			log.Debug("skipping change for other artifact",
				zap.String("chart", c.ChartID), zap.String("target", c.TargetArtifact))
			res.Skipped++
			continue
		}
		changes = append(changes, c)
	}
	res.Applied = len(changes)
	if len(changes) == 0 {
		return res, nil
	}

	newJS, err := PatchSettings(string(js), changes)
	if err != nil {
		return nil, fmt.Errorf("patching %s: %w", jsPath, err)
	}
	newMarkup, err := PatchMarkup(string(markup), changes)
	if err != nil {
		return nil, fmt.Errorf("patching %s: %w", htmlPath, err)
	}

	if err := writeIfChanged(jsPath, string(js), newJS); err != nil {
		return nil, err
	}
	if err := writeIfChanged(htmlPath, string(markup), newMarkup); err != nil {
		return nil, err
	}
	log.Info("patched component",
		zap.String("js", jsPath), zap.String("html", htmlPath),
		zap.Int("applied", res.Applied), zap.Int("skipped", res.Skipped))
	return res, nil
}

func writeIfChanged(path, before, after string) error {
	if before == after {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (p *Patcher) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
