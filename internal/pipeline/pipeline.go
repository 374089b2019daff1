// Package pipeline runs the chart sync stages in order and hands typed values
// from one stage to the next. Every stage also persists its output so it can
// be invoked on its own.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/component"
	"github.com/andbeder/PurpleFox/internal/dashboard"
	"github.com/andbeder/PurpleFox/internal/instruct"
	"github.com/andbeder/PurpleFox/internal/ledger"
	"github.com/andbeder/PurpleFox/internal/patch"
	"github.com/andbeder/PurpleFox/internal/reconcile"
	"github.com/andbeder/PurpleFox/internal/salesforce"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

// ErrAborted reports a dashboard extraction stopped by an incomplete widget.
var ErrAborted = errors.New("dashboard extraction aborted")

// Paths locates every file the stages read or write.
type Paths struct {
	WorkDir            string
	TokenFile          string
	ChartsFile         string
	RevEngChartsFile   string
	ChangeRequestsFile string
	InstructionsFile   string
	ChartStylesFile    string
	ComponentJS        string
	ComponentHTML      string
	SourceDir          string
	ReportsDir         string
}

// Fetcher downloads a dashboard definition into a directory.
type Fetcher interface {
	SaveDashboard(ctx context.Context, name, dir string) (string, error)
}

// FetcherFunc builds a Fetcher once the access token is known.
type FetcherFunc func(token string) (Fetcher, error)

// Pipeline wires the stages together.
type Pipeline struct {
	Paths      Paths
	NewFetcher FetcherFunc
	Docs       dashboard.Describer
	Runner     toolchain.Runner
	Policy     dashboard.IncompletePolicy
	Logger     *zap.Logger
}

// Options selects the dashboard and the stages of one run.
type Options struct {
	Dashboard  string
	SkipFetch  bool
	SkipTest   bool
	SkipDeploy bool
	Test       toolchain.TestOptions
	Deploy     toolchain.DeployOptions
}

// Report summarizes a run.
type Report struct {
	Charts  int
	Current int
	Changes *chart.ChangeSet
	Patch   *patch.Result
	Deploy  *toolchain.DeployResult
	// Stages lists the stages that ran, in order.
	Stages []string
}

// Authorize reads the access token.
func (p *Pipeline) Authorize() (string, error) {
	return salesforce.ReadToken(p.Paths.TokenFile)
}

// Fetch downloads the dashboard into the work directory.
func (p *Pipeline) Fetch(ctx context.Context, token, name string) (string, error) {
	if p.NewFetcher == nil {
		return "", fmt.Errorf("%w: no dashboard fetcher configured", chart.ErrInputNotFound)
	}
	f, err := p.NewFetcher(token)
	if err != nil {
		return "", err
	}
	path, err := f.SaveDashboard(ctx, name, p.Paths.WorkDir)
	if err != nil {
		return "", fmt.Errorf("fetching dashboard %s: %w", name, err)
	}
	p.logger().Info("fetched dashboard", zap.String("dashboard", name), zap.String("path", path))
	return path, nil
}

// ExtractDashboard reads the downloaded dashboard and writes the canonical
// chart set. An aborted extraction writes nothing and returns ErrAborted.
func (p *Pipeline) ExtractDashboard(ctx context.Context, name string) (*chart.Set, error) {
	l, err := ledger.Open(p.Paths.ChartStylesFile)
	if err != nil {
		return nil, err
	}
	ex := &dashboard.Extractor{Ledger: l, Docs: p.Docs, Policy: p.Policy, Logger: p.Logger}
	res, err := ex.ExtractFile(ctx, name, p.Paths.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("reading dashboard %s: %w", name, err)
	}
	if res.Aborted {
		return nil, fmt.Errorf("%w: widget %s has no title or query", ErrAborted, res.AbortedAt)
	}
	if err := chart.WriteSet(p.Paths.ChartsFile, res.Set); err != nil {
		return nil, err
	}
	return res.Set, nil
}

// ExtractComponent reads the component and writes its chart set.
func (p *Pipeline) ExtractComponent() (*chart.Set, error) {
	ex := &component.Extractor{Logger: p.Logger}
	set, err := ex.ExtractFiles(p.Paths.ComponentJS, p.Paths.ComponentHTML)
	if err != nil {
		return nil, fmt.Errorf("reading component: %w", err)
	}
	if err := chart.WriteSet(p.Paths.RevEngChartsFile, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Diff reconciles the two sets and writes the change set and its
// instructions.
func (p *Pipeline) Diff(authoritative, current *chart.Set) (*chart.ChangeSet, error) {
	cs, err := reconcile.Reconcile(authoritative, current, filepath.Base(p.Paths.ComponentJS))
	if err != nil {
		return nil, err
	}
	if err := chart.WriteChangeSet(p.Paths.ChangeRequestsFile, cs); err != nil {
		return nil, err
	}
	if err := instruct.WriteFile(p.Paths.InstructionsFile, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Patch applies cs to the component.
func (p *Pipeline) Patch(cs *chart.ChangeSet) (*patch.Result, error) {
	pt := &patch.Patcher{Logger: p.Logger}
	return pt.PatchFiles(cs, p.Paths.ComponentJS, p.Paths.ComponentHTML)
}

// Test runs the component test suites from the project root.
func (p *Pipeline) Test(ctx context.Context, opts toolchain.TestOptions) error {
	t := &toolchain.Tester{Runner: p.Runner, Logger: p.Logger}
	return t.Run(ctx, opts)
}

// Deploy deploys the source directory.
func (p *Pipeline) Deploy(ctx context.Context, opts toolchain.DeployOptions) (*toolchain.DeployResult, error) {
	if opts.SourceDir == "" {
		opts.SourceDir = p.Paths.SourceDir
	}
	d := &toolchain.Deployer{Runner: p.Runner, ReportsDir: p.Paths.ReportsDir, Logger: p.Logger}
	return d.Deploy(ctx, opts)
}

// Run executes Authorize, Fetch, both extractions, Diff, Patch, Test and
// Deploy in that order, stopping at the first error.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Dashboard == "" {
		return nil, fmt.Errorf("%w: dashboard API name is required", chart.ErrInputNotFound)
	}
	log := p.logger()
	rep := &Report{}
	stage := func(name string) {
		rep.Stages = append(rep.Stages, name)
		log.Debug("stage", zap.String("name", name))
	}

	stage("authorize")
	token, err := p.Authorize()
	if err != nil {
		return rep, err
	}

	if !opts.SkipFetch {
		stage("fetch")
		if _, err := p.Fetch(ctx, token, opts.Dashboard); err != nil {
			return rep, err
		}
	}

	stage("read-dashboard")
	authoritative, err := p.ExtractDashboard(ctx, opts.Dashboard)
	if err != nil {
		return rep, err
	}
	rep.Charts = len(authoritative.Charts)

	stage("read-component")
	current, err := p.ExtractComponent()
	if err != nil {
		return rep, err
	}
	rep.Current = len(current.Charts)

	stage("diff")
	if rep.Changes, err = p.Diff(authoritative, current); err != nil {
		return rep, err
	}

	stage("sync")
	if rep.Patch, err = p.Patch(rep.Changes); err != nil {
		return rep, err
	}

	if !opts.SkipTest {
		stage("test")
		if err := p.Test(ctx, opts.Test); err != nil {
			return rep, err
		}
	}

	if !opts.SkipDeploy {
		stage("deploy")
		deploy := opts.Deploy
		deploy.Token = token
		if rep.Deploy, err = p.Deploy(ctx, deploy); err != nil {
			return rep, err
		}
	}

	log.Info("run complete",
		zap.String("dashboard", opts.Dashboard),
		zap.Int("charts", rep.Charts),
		zap.Int("changes", len(rep.Changes.Changes)))
	return rep, nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
