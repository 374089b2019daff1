package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/dashboard"
	"github.com/andbeder/PurpleFox/internal/pipeline"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

// project is a scratch workspace with a component and a downloaded
// dashboard. flags points every stage at it.
type project struct {
	dir   string
	flags []string
}

func (p *project) path(elem ...string) string {
	return filepath.Join(append([]string{p.dir}, elem...)...)
}

func newProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	p := &project{dir: dir}
	require.NoError(t, os.MkdirAll(p.path("tmp"), 0755))
	require.NoError(t, os.MkdirAll(p.path("lwc"), 0755))
	copyFile(t, "dynamicCharts.js", p.path("lwc", "dynamicCharts.js"))
	copyFile(t, "dynamicCharts.html", p.path("lwc", "dynamicCharts.html"))
	copyFile(t, "Peaks.json", p.path("tmp", "Peaks.json"))
	require.NoError(t, os.WriteFile(p.path("tmp", "access_token.txt"), []byte("00Dtoken"), 0600))

	p.flags = []string{
		"--work-dir", p.path("tmp"),
		"--token-file", p.path("tmp", "access_token.txt"),
		"--charts-file", p.path("charts.json"),
		"--rev-eng-charts-file", p.path("revEngCharts.json"),
		"--change-requests-file", p.path("changeRequests.json"),
		"--instructions-file", p.path("changeRequestInstructions.txt"),
		"--chart-styles-file", p.path("chartStyles.txt"),
		"--component-js", p.path("lwc", "dynamicCharts.js"),
		"--component-html", p.path("lwc", "dynamicCharts.html"),
		"--source-dir", p.path("lwc"),
		"--reports-dir", p.path("reports"),
	}
	return p
}

func copyFile(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))
}

// resetFlags restores every flag to its default so tests do not leak state
// through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func (p *project) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, append(args, p.flags...)...)
}

type fakeRunner struct {
	calls []toolchain.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd toolchain.Command) (*toolchain.Output, error) {
	f.calls = append(f.calls, cmd)
	switch cmd.Name {
	case "sf":
		return &toolchain.Output{Stdout: `{"status":0,"result":{"status":"Succeeded","success":true}}`}, nil
	case "node":
		return &toolchain.Output{Stdout: "v20.11.1\n"}, nil
	}
	return &toolchain.Output{}, nil
}

type fakeFetcher struct{}

func (fakeFetcher) SaveDashboard(_ context.Context, name, dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	if err != nil {
		return "", chart.ErrExternalCall
	}
	path := filepath.Join(dir, name+".json")
	return path, os.WriteFile(path, data, 0644)
}

func stubCollaborators(t *testing.T) *fakeRunner {
	t.Helper()
	r := &fakeRunner{}
	oldRunner, oldFetcher, oldDocs := newRunner, newFetcher, newDocs
	newRunner = func(io.Writer, io.Writer) toolchain.Runner { return r }
	newFetcher = func(string) (pipeline.Fetcher, error) { return fakeFetcher{}, nil }
	newDocs = func() dashboard.Describer { return nil }
	t.Cleanup(func() { newRunner, newFetcher, newDocs = oldRunner, oldFetcher, oldDocs })
	return r
}

func TestReadComponent(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "read-component")
	require.NoError(t, err)
	require.Equal(t, "Wrote 2 charts to "+p.path("revEngCharts.json")+"\n", out)

	set, err := chart.LoadSet(p.path("revEngCharts.json"))
	require.NoError(t, err)
	require.Len(t, set.Charts, 2)
}

func TestSilentSuppressesSummary(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "read-component", "--silent")
	require.NoError(t, err)
	require.Empty(t, out)
	require.FileExists(t, p.path("revEngCharts.json"))
}

func TestStagesByHand(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "read-dashboard", "Peaks", "--offline")
	require.NoError(t, err)
	require.Equal(t, "Wrote 1 charts to "+p.path("charts.json")+"\n", out)

	_, err = p.run(t, "read-component")
	require.NoError(t, err)

	out, err = p.run(t, "diff")
	require.NoError(t, err)
	require.Contains(t, out, "Wrote 3 change requests")
	require.Contains(t, out, "(1 add, 0 update, 2 remove)")

	require.NoError(t, os.Remove(p.path("changeRequestInstructions.txt")))
	out, err = p.run(t, "instructions")
	require.NoError(t, err)
	require.Contains(t, out, "Wrote instructions for 3 change requests")
	text, err := os.ReadFile(p.path("changeRequestInstructions.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "1. "), "instructions: %q", text)

	out, err = p.run(t, "sync")
	require.NoError(t, err)
	require.Contains(t, out, "Applied 3 change requests")

	js, err := os.ReadFile(p.path("lwc", "dynamicCharts.js"))
	require.NoError(t, err)
	require.Contains(t, string(js), `"new-chart": {}`)
	require.NotContains(t, string(js), "ClimbsByNation: {")
}

func TestReadDashboard_MissingInput(t *testing.T) {
	p := newProject(t)

	_, err := p.run(t, "read-dashboard", "Nope", "--offline")
	require.ErrorIs(t, err, chart.ErrInputNotFound)
}

func TestReadDashboard_IncompleteWidgetSkipsDashboard(t *testing.T) {
	p := newProject(t)
	copyFile(t, "Broken.json", p.path("tmp", "Broken.json"))

	out, err := p.run(t, "read-dashboard", "Broken", "--offline")
	require.NoError(t, err)
	require.Contains(t, out, "Skipped dashboard Broken")
	require.Contains(t, out, "chart_1")
	require.NoFileExists(t, p.path("charts.json"))

	_, err = p.run(t, "read-dashboard", "Broken", "--offline", "--on-incomplete", "skip")
	require.NoError(t, err)
	set, err := chart.LoadSet(p.path("charts.json"))
	require.NoError(t, err)
	require.Empty(t, set.Charts)
}

func TestReadDashboard_BadPolicy(t *testing.T) {
	p := newProject(t)

	_, err := p.run(t, "read-dashboard", "Peaks", "--on-incomplete", "ignore")
	require.ErrorIs(t, err, chart.ErrMalformedInput)
}

func TestRun(t *testing.T) {
	p := newProject(t)
	r := stubCollaborators(t)

	out, err := p.run(t, "run", "Peaks", "--ci", "--check-only")
	require.NoError(t, err)
	require.Equal(t, "Synced 1 charts from Peaks: 1 add, 0 update, 2 remove\n", out)

	require.Len(t, r.calls, 3)
	require.Equal(t, "npm run lint", r.calls[0].String())
	require.Equal(t, "npm run test:lwc:unit", r.calls[1].String())
	require.Equal(t, []string{"project", "deploy", "validate"}, r.calls[2].Args[:3])
	require.Equal(t, []string{"SF_ACCESS_TOKEN=00Dtoken"}, r.calls[2].Env)
}

func TestRun_SkipStages(t *testing.T) {
	p := newProject(t)
	r := stubCollaborators(t)

	_, err := p.run(t, "run", "Peaks", "--skip-fetch", "--skip-test", "--skip-deploy")
	require.NoError(t, err)
	require.Empty(t, r.calls)
}

func TestDeploy_WithoutTokenFile(t *testing.T) {
	p := newProject(t)
	r := stubCollaborators(t)
	require.NoError(t, os.Remove(p.path("tmp", "access_token.txt")))

	out, err := p.run(t, "deploy", "--wait", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Deployment Succeeded")
	require.Len(t, r.calls, 1)
	require.Empty(t, r.calls[0].Env)
	require.Contains(t, r.calls[0].Args, "5")
}

func TestTestCommand(t *testing.T) {
	p := newProject(t)
	r := stubCollaborators(t)

	out, err := p.run(t, "test", "--integration")
	require.NoError(t, err)
	require.Equal(t, "Component tests passed\n", out)
	require.Equal(t, "npm run test:lwc:integration", r.calls[0].String())
}

func TestDoctor_Component(t *testing.T) {
	p := newProject(t)

	out, err := p.run(t, "doctor", "--check-component", "--check-token")
	require.NoError(t, err)
	require.Contains(t, out, "[ OK ] "+p.path("lwc", "dynamicCharts.js"))

	require.NoError(t, os.WriteFile(p.path("lwc", "dynamicCharts.js"), []byte("export default class X {}\n"), 0644))
	out, err = p.run(t, "doctor", "--check-component")
	require.EqualError(t, err, "1 check(s) failed")
	require.Contains(t, out, `has no "chartSettings ="`)
}

func TestDoctor_Tools(t *testing.T) {
	p := newProject(t)
	stubCollaborators(t)

	out, err := p.run(t, "doctor", "--check-tools")
	if err != nil {
		// npm and sf are looked up on PATH and may be missing here.
		require.Contains(t, out, "[MISS]")
	}
	require.Contains(t, out, "[ OK ] node v20.11.1 satisfies >=18 <23")
}

func TestConfigSetGet(t *testing.T) {
	home := t.TempDir()

	resetFlags(rootCmd)
	t.Setenv("HOME", home)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "set", "instance_url", "https://org.example.com"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "Set instance_url = https://org.example.com\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"config", "get", "instance_url"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "https://org.example.com\n", out.String())
}

func TestVersion(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc", "today"

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "purplefox version 1.2.3 (commit: abc, built: today)\n", out)
}
