//go:build integration

package integration_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/andbeder/PurpleFox/internal/pipeline"
)

// testEnv holds paths to an isolated project and its fake tools.
type testEnv struct {
	HomeDir    string // HOME, so no user config is read
	ProjectDir string // project root with the component under force-app/
	BinDir     string // shims for npm and sf, first on PATH
	LogDir     string // where shims record their invocations
}

// setupTestEnv creates isolated temp directories, a component copied from
// the package fixtures, and an access token.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
		BinDir:     t.TempDir(),
		LogDir:     t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)

	lwc := filepath.Join(env.ProjectDir, "force-app", "main", "default", "lwc", "dynamicCharts")
	writeFile(t, filepath.Join(lwc, "dynamicCharts.js"), readFixture(t, "dynamicCharts.js"))
	writeFile(t, filepath.Join(lwc, "dynamicCharts.html"), readFixture(t, "dynamicCharts.html"))
	writeFile(t, filepath.Join(env.ProjectDir, "tmp", "access_token.txt"), "00Dintegration\n")
	return env
}

// paths returns the default layout rooted at the project directory.
func (env *testEnv) paths() pipeline.Paths {
	root := env.ProjectDir
	lwc := filepath.Join(root, "force-app", "main", "default", "lwc", "dynamicCharts")
	return pipeline.Paths{
		WorkDir:            filepath.Join(root, "tmp"),
		TokenFile:          filepath.Join(root, "tmp", "access_token.txt"),
		ChartsFile:         filepath.Join(root, "charts.json"),
		RevEngChartsFile:   filepath.Join(root, "revEngCharts.json"),
		ChangeRequestsFile: filepath.Join(root, "changeRequests.json"),
		InstructionsFile:   filepath.Join(root, "changeRequestInstructions.txt"),
		ChartStylesFile:    filepath.Join(root, "chartStyles.txt"),
		ComponentJS:        filepath.Join(lwc, "dynamicCharts.js"),
		ComponentHTML:      filepath.Join(lwc, "dynamicCharts.html"),
		SourceDir:          filepath.Join(root, "force-app", "main", "default"),
		ReportsDir:         filepath.Join(root, "reports"),
	}
}

// installShims puts recording npm and sf scripts first on PATH. Each shim
// appends its arguments to <LogDir>/<name>.log; sf also records
// SF_ACCESS_TOKEN and prints sfOutput.
func installShims(t *testing.T, env *testEnv, sfOutput string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell shims require a POSIX shell")
	}

	writeExecutable(t, filepath.Join(env.BinDir, "npm"), `#!/bin/sh
echo "$@" >> "`+filepath.Join(env.LogDir, "npm.log")+`"
`)
	writeExecutable(t, filepath.Join(env.BinDir, "sf"), `#!/bin/sh
echo "$@" >> "`+filepath.Join(env.LogDir, "sf.log")+`"
echo "$SF_ACCESS_TOKEN" > "`+filepath.Join(env.LogDir, "sf.token")+`"
cat <<'JSON'
`+sfOutput+`
JSON
`)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// newOrg serves the dashboard REST endpoint and the ApexCharts option pages.
func newOrg(t *testing.T, dashboardName, dashboardJSON string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/services/data/v60.0/wave/dashboards/"+dashboardName, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer 00Dintegration" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`[{"errorCode":"INVALID_SESSION_ID","message":"Session expired or invalid"}]`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dashboardJSON))
	})
	mux.HandleFunc("/docs/options/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/docs/options/"), "/")
		_, _ = w.Write([]byte("<html><head><title>ApexCharts</title></head><body><h1>" + key + " option</h1></body></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "component", "testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return string(data)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
