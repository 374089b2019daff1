package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

var deployOpts toolchain.DeployOptions

func init() {
	addDeployFlags(deployCmd)
	rootCmd.AddCommand(deployCmd)
}

func addDeployFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&deployOpts.CheckOnly, "check-only", false, "Validate the deployment without saving it")
	cmd.Flags().BoolVar(&deployOpts.Verbose, "deploy-verbose", false, "Pass --verbose to sf")
	cmd.Flags().IntVar(&deployOpts.Wait, "wait", toolchain.DefaultWaitMinutes, "Minutes to wait for the deployment")
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the source directory with the Salesforce CLI",
	Long: `Run sf project deploy start (or validate with --check-only) against the source
directory and save sf's JSON output under the reports directory.

The token file is exported as SF_ACCESS_TOKEN when present; otherwise sf uses
its own authorization.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline(cmd)
		opts := deployOpts
		token, err := p.Authorize()
		switch {
		case err == nil:
			opts.Token = token
		case !errors.Is(err, chart.ErrInputNotFound):
			return err
		}

		res, err := p.Deploy(cmd.Context(), opts)
		if err != nil {
			return err
		}
		summary(cmd, "Deployment %s, report saved to %s", res.Status, res.ReportPath)
		return nil
	},
}
