package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andbeder/PurpleFox/internal/branding"
	"github.com/andbeder/PurpleFox/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	silent  bool
	logger  = zap.NewNop()
)

// pathFlags maps persistent path flags to their config keys.
var pathFlags = []struct {
	name  string
	key   string
	usage string
}{
	{"work-dir", config.KeyWorkDir, "Directory for downloaded dashboards"},
	{"token-file", config.KeyTokenFile, "Access token file"},
	{"charts-file", config.KeyChartsFile, "Canonical dashboard chart set"},
	{"rev-eng-charts-file", config.KeyRevEngChartsFile, "Canonical component chart set"},
	{"change-requests-file", config.KeyChangeRequestsFile, "Change set file"},
	{"instructions-file", config.KeyInstructionsFile, "Instruction text file"},
	{"chart-styles-file", config.KeyChartStylesFile, "Style ledger file"},
	{"component-js", config.KeyComponentJS, "Component JavaScript file"},
	{"component-html", config.KeyComponentHTML, "Component template file"},
	{"source-dir", config.KeySourceDir, "Source directory to deploy"},
	{"reports-dir", config.KeyReportsDir, "Directory for deploy reports"},
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps the chart settings of a generated Lightning web component in
sync with the CRM Analytics dashboard they were built from.

Stages can run one at a time, each reading the previous stage's files, or all
together with the run command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&silent, "silent", "s", false, "Suppress the summary line")
	for _, f := range pathFlags {
		pf.String(f.name, "", f.usage+" (config: "+f.key+")")
		_ = viper.BindPFlag(f.key, pf.Lookup(f.name))
	}
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// summary prints a one-line result unless --silent is set.
func summary(cmd *cobra.Command, format string, args ...any) {
	if silent {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
