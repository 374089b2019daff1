//go:build integration

package integration_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andbeder/PurpleFox/internal/apexdocs"
	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/component"
	"github.com/andbeder/PurpleFox/internal/pipeline"
	"github.com/andbeder/PurpleFox/internal/salesforce"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

const climbsDashboard = `{
  "datasets": [{"id": "0Fb000000000010", "name": "climbs"}],
  "state": {
    "steps": {
      "nation_1": {
        "type": "aggregateflex",
        "query": {
          "sources": [{
            "groups": ["nation"],
            "columns": [{"field": ["count", "*"], "name": "Climbs"}]
          }],
          "orders": [{"name": "Climbs", "ascending": false}],
          "limit": 20
        }
      }
    },
    "widgets": {
      "chart_1": {
        "type": "chart",
        "parameters": {
          "title": {"label": "Top 20 Climbs by Nation"},
          "step": "nation_1",
          "visualizationType": "hbar",
          "columnMap": {"plots": ["Climbs"], "dimensionAxis": ["nation"]}
        }
      },
      "text_1": {
        "type": "text",
        "parameters": {"content": {"richTextContent": [
          {"insert": "id: ClimbsByNation; colors: dark blue; effects: shadow; font: Helvetica"}
        ]}}
      }
    },
    "gridLayouts": [{"pages": [{"widgets": [
      {"name": "chart_1", "row": 0, "column": 0},
      {"name": "text_1", "row": 0, "column": 8}
    ]}]}]
  }
}`

const sfSucceeded = `{"status":0,"result":{"status":"Succeeded","success":true,"numberComponentsDeployed":2}}`

func newTestPipeline(t *testing.T, env *testEnv, orgURL string) *pipeline.Pipeline {
	t.Helper()
	return &pipeline.Pipeline{
		Paths: env.paths(),
		NewFetcher: func(token string) (pipeline.Fetcher, error) {
			return salesforce.New(orgURL, token)
		},
		Docs:   apexdocs.New(apexdocs.WithBaseURL(orgURL + "/docs/options")),
		Runner: &toolchain.ExecRunner{},
	}
}

// TestFullRun drives every stage against a fake org and shimmed tools:
// fetch -> extract both sides -> diff -> patch -> test -> deploy.
func TestFullRun(t *testing.T) {
	env := setupTestEnv(t)
	installShims(t, env, sfSucceeded)
	org := newOrg(t, "Climbs", climbsDashboard)
	p := newTestPipeline(t, env, org.URL)
	paths := env.paths()

	rep, err := p.Run(context.Background(), pipeline.Options{Dashboard: "Climbs"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Step 1: the dashboard was downloaded and extracted.
	assertFileExists(t, filepath.Join(paths.WorkDir, "Climbs.json"))
	set, err := chart.LoadSet(paths.ChartsFile)
	if err != nil {
		t.Fatalf("LoadSet: %v", err)
	}
	if len(set.Charts) != 1 || set.Charts[0].ID != "ClimbsByNation" {
		t.Fatalf("charts = %+v, want one ClimbsByNation", set.Charts)
	}
	assertFileContains(t, paths.ChartStylesFile, "colors - colors option\n")
	assertFileContains(t, paths.ChartStylesFile, "font - font option\n")

	// Step 2: ClimbsByNation is updated, TimeByPeak removed.
	if got := rep.Changes.Count(chart.ActionUpdate); got != 1 {
		t.Errorf("updates = %d, want 1", got)
	}
	if got := rep.Changes.Count(chart.ActionRemove); got != 1 {
		t.Errorf("removes = %d, want 1", got)
	}
	assertFileContains(t, paths.InstructionsFile, "1. ")
	assertFileContains(t, paths.ChangeRequestsFile, `"action": "remove"`)

	// Step 3: the component now matches the dashboard.
	cur, err := (&component.Extractor{}).ExtractFiles(paths.ComponentJS, paths.ComponentHTML)
	if err != nil {
		t.Fatalf("ExtractFiles: %v", err)
	}
	if len(cur.Charts) != 1 {
		t.Fatalf("component charts = %d, want 1", len(cur.Charts))
	}
	got := cur.Charts[0]
	if got.Style.Font != "Helvetica" || !got.Style.HasEffect(chart.EffectShadow) {
		t.Errorf("component style = %+v", got.Style)
	}
	if !strings.HasPrefix(got.Query, `q = load "0Fb000000000010";`) {
		t.Errorf("component query = %q", got.Query)
	}
	html := readFile(t, paths.ComponentHTML)
	if strings.Contains(html, "TimeByPeak") {
		t.Errorf("TimeByPeak markup still present:\n%s", html)
	}

	// Step 4: tests and deployment ran through the shims.
	assertFileContains(t, filepath.Join(env.LogDir, "npm.log"), "run test:lwc:unit\n")
	assertFileContains(t, filepath.Join(env.LogDir, "sf.log"),
		"project deploy start --source-dir "+paths.SourceDir+" --wait 10 --json\n")
	assertFileContains(t, filepath.Join(env.LogDir, "sf.token"), "00Dintegration")
	if rep.Deploy == nil || !rep.Deploy.Success {
		t.Fatalf("deploy result = %+v", rep.Deploy)
	}
	assertFileContains(t, rep.Deploy.ReportPath, `"status":"Succeeded"`)
}

// TestRunConverges checks that a second run over the patched component finds
// nothing left to change.
func TestRunConverges(t *testing.T) {
	env := setupTestEnv(t)
	org := newOrg(t, "Climbs", climbsDashboard)
	p := newTestPipeline(t, env, org.URL)
	opts := pipeline.Options{Dashboard: "Climbs", SkipTest: true, SkipDeploy: true}

	if _, err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	opts.SkipFetch = true
	rep, err := p.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if n := len(rep.Changes.Changes); n != 0 {
		t.Errorf("second run produced %d changes: %+v", n, rep.Changes.Changes)
	}
}

func TestRunRejectedToken(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, env.paths().TokenFile, "expired")
	org := newOrg(t, "Climbs", climbsDashboard)
	p := newTestPipeline(t, env, org.URL)

	_, err := p.Run(context.Background(), pipeline.Options{Dashboard: "Climbs"})
	if !errors.Is(err, chart.ErrExternalCall) {
		t.Fatalf("Run error = %v, want ErrExternalCall", err)
	}
	assertFileNotExists(t, env.paths().ChartsFile)
}

func TestTestFailureStopsBeforeDeploy(t *testing.T) {
	env := setupTestEnv(t)
	installShims(t, env, sfSucceeded)
	writeExecutable(t, filepath.Join(env.BinDir, "npm"), "#!/bin/sh\necho failing >&2\nexit 1\n")
	org := newOrg(t, "Climbs", climbsDashboard)
	p := newTestPipeline(t, env, org.URL)

	_, err := p.Run(context.Background(), pipeline.Options{Dashboard: "Climbs"})
	if !errors.Is(err, toolchain.ErrToolFailed) {
		t.Fatalf("Run error = %v, want ErrToolFailed", err)
	}
	assertFileNotExists(t, filepath.Join(env.LogDir, "sf.log"))
}

func TestDeployFailureKeepsReport(t *testing.T) {
	env := setupTestEnv(t)
	installShims(t, env, `{"status":1,"message":"Deploy failed.","result":{"status":"Failed","success":false}}`)
	writeExecutable(t, filepath.Join(env.BinDir, "sf"), `#!/bin/sh
echo '{"status":1,"message":"Deploy failed.","result":{"status":"Failed","success":false}}'
exit 1
`)
	p := newTestPipeline(t, env, "http://unused.invalid")

	res, err := p.Deploy(context.Background(), toolchain.DeployOptions{CheckOnly: true})
	if !errors.Is(err, toolchain.ErrToolFailed) {
		t.Fatalf("Deploy error = %v, want ErrToolFailed", err)
	}
	if res == nil {
		t.Fatal("expected a result with the report path")
	}
	assertFileContains(t, res.ReportPath, "Deploy failed.")
}
