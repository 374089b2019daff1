package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	setupHome(t)
	Load()

	if got := Get(KeyAPIVersion); got != "60.0" {
		t.Errorf("api_version = %q, want %q", got, "60.0")
	}
	if got := Get(KeyChartsFile); got != "charts.json" {
		t.Errorf("charts_file = %q, want %q", got, "charts.json")
	}
}

func TestLoad_SalesforceEnvAliases(t *testing.T) {
	setupHome(t)
	t.Setenv("SF_INSTANCE_URL", "https://example.my.salesforce.com")
	t.Setenv("SF_API_VERSION", "59.0")
	Load()

	if got := Get(KeyInstanceURL); got != "https://example.my.salesforce.com" {
		t.Errorf("instance_url = %q", got)
	}
	if got := Get(KeyAPIVersion); got != "59.0" {
		t.Errorf("api_version = %q, want 59.0", got)
	}
}

func TestLoad_PrefixedEnvOverride(t *testing.T) {
	setupHome(t)
	t.Setenv("PURPLEFOX_WORK_DIR", "/var/tmp/pf")
	Load()

	if got := Get(KeyWorkDir); got != "/var/tmp/pf" {
		t.Errorf("work_dir = %q, want /var/tmp/pf", got)
	}
}

func TestSet_WritesFile(t *testing.T) {
	home := setupHome(t)
	Load()

	if err := Set(KeyInstanceURL, "https://org.example.com"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	path := filepath.Join(home, ".purplefox", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if len(data) == 0 {
		t.Error("config file is empty")
	}
	if got := Get(KeyInstanceURL); got != "https://org.example.com" {
		t.Errorf("instance_url = %q", got)
	}
}

func TestSet_DoesNotPersistDefaults(t *testing.T) {
	home := setupHome(t)
	Load()

	if err := Set(KeyWorkDir, "scratch"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := Set(KeyInstanceURL, "https://org.example.com"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".purplefox", "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	got := string(data)
	for _, want := range []string{"work_dir: scratch", "instance_url: https://org.example.com"} {
		if !strings.Contains(got, want) {
			t.Errorf("config file missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, KeyAPIVersion) {
		t.Errorf("config file persisted default %s:\n%s", KeyAPIVersion, got)
	}
}
