package cli

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/apexdocs"
	"github.com/andbeder/PurpleFox/internal/config"
	"github.com/andbeder/PurpleFox/internal/dashboard"
	"github.com/andbeder/PurpleFox/internal/pipeline"
	"github.com/andbeder/PurpleFox/internal/salesforce"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

// Collaborator factories; tests replace them.
var (
	newRunner = func(stdout, stderr io.Writer) toolchain.Runner {
		return &toolchain.ExecRunner{Stdout: stdout, Stderr: stderr}
	}
	newFetcher pipeline.FetcherFunc = func(token string) (pipeline.Fetcher, error) {
		return newSalesforceClient(token)
	}
	newDocs = func() dashboard.Describer {
		return apexdocs.New(apexdocs.WithBaseURL(config.Get(config.KeyDocsBaseURL)))
	}
)

func newSalesforceClient(token string) (*salesforce.Client, error) {
	return salesforce.New(config.Get(config.KeyInstanceURL), token,
		salesforce.WithAPIVersion(config.Get(config.KeyAPIVersion)))
}

// resolvePaths reads every stage path from flags and config.
func resolvePaths() pipeline.Paths {
	return pipeline.Paths{
		WorkDir:            config.Get(config.KeyWorkDir),
		TokenFile:          config.Get(config.KeyTokenFile),
		ChartsFile:         config.Get(config.KeyChartsFile),
		RevEngChartsFile:   config.Get(config.KeyRevEngChartsFile),
		ChangeRequestsFile: config.Get(config.KeyChangeRequestsFile),
		InstructionsFile:   config.Get(config.KeyInstructionsFile),
		ChartStylesFile:    config.Get(config.KeyChartStylesFile),
		ComponentJS:        filepath.Clean(config.Get(config.KeyComponentJS)),
		ComponentHTML:      filepath.Clean(config.Get(config.KeyComponentHTML)),
		SourceDir:          config.Get(config.KeySourceDir),
		ReportsDir:         config.Get(config.KeyReportsDir),
	}
}

// newPipeline builds a pipeline from config and the collaborator factories.
func newPipeline(cmd *cobra.Command) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Paths:      resolvePaths(),
		NewFetcher: newFetcher,
		Docs:       newDocs(),
		Runner:     newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Logger:     logger,
	}
}
