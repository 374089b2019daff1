package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andbeder/PurpleFox/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyInstanceURL        = "instance_url"
	KeyAPIVersion         = "api_version"
	KeyTokenFile          = "token_file"
	KeyWorkDir            = "work_dir"
	KeyChartsFile         = "charts_file"
	KeyRevEngChartsFile   = "rev_eng_charts_file"
	KeyChangeRequestsFile = "change_requests_file"
	KeyInstructionsFile   = "instructions_file"
	KeyChartStylesFile    = "chart_styles_file"
	KeyComponentJS        = "component_js"
	KeyComponentHTML      = "component_html"
	KeySourceDir          = "source_dir"
	KeyDocsBaseURL        = "docs_base_url"
	KeyReportsDir         = "reports_dir"
)

var defaults = map[string]string{
	KeyAPIVersion:         "60.0",
	KeyTokenFile:          filepath.Join("tmp", "access_token.txt"),
	KeyWorkDir:            "tmp",
	KeyChartsFile:         "charts.json",
	KeyRevEngChartsFile:   "revEngCharts.json",
	KeyChangeRequestsFile: "changeRequests.json",
	KeyInstructionsFile:   "changeRequestInstructions.txt",
	KeyChartStylesFile:    "chartStyles.txt",
	KeyComponentJS:        filepath.Join("force-app", "main", "default", "lwc", "dynamicCharts", "dynamicCharts.js"),
	KeyComponentHTML:      filepath.Join("force-app", "main", "default", "lwc", "dynamicCharts", "dynamicCharts.html"),
	KeySourceDir:          filepath.Join("force-app", "main", "default"),
	KeyDocsBaseURL:        "https://apexcharts.com/docs/options",
	KeyReportsDir:         "reports",
}

// Dir returns the path to the config directory (~/.purplefox/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.purplefox/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// The Salesforce CLI ecosystem exports these without our prefix.
	_ = viper.BindEnv(KeyInstanceURL, branding.EnvVar(KeyInstanceURL), "SF_INSTANCE_URL")
	_ = viper.BindEnv(KeyAPIVersion, branding.EnvVar(KeyAPIVersion), "SF_API_VERSION")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Default returns the built-in default for key, or "" when none exists.
func Default(key string) string {
	return defaults[key]
}

// Set writes a config key-value pair and saves the config file. Only values
// already in the file and the new one are written; defaults, flags and
// environment overrides are not persisted.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	} else if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
