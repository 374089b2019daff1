package cli

import (
	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/dashboard"
	"github.com/andbeder/PurpleFox/internal/pipeline"
)

var (
	runSkipFetch  bool
	runSkipTest   bool
	runSkipDeploy bool
	runPolicy     string
)

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runSkipFetch, "skip-fetch", false, "Use the dashboard already in the work directory")
	f.BoolVar(&runSkipTest, "skip-test", false, "Do not run the component tests")
	f.BoolVar(&runSkipDeploy, "skip-deploy", false, "Do not deploy")
	f.StringVar(&runPolicy, "on-incomplete", "abort", "Incomplete widget policy: abort or skip")
	f.BoolVar(&testOpts.Integration, "integration", false, "Run the integration suite instead of unit tests")
	f.BoolVar(&testOpts.CI, "ci", false, "Lint before testing")
	addDeployFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <dashboard>",
	Short: "Run every stage for one dashboard",
	Long: `Authorize, fetch the dashboard, extract both chart sets, write the change
requests and instructions, patch the component, test it, and deploy it.

Stages run in order and the first failure stops the run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := dashboard.ParsePolicy(runPolicy)
		if err != nil {
			return err
		}
		p := newPipeline(cmd)
		p.Policy = policy

		rep, err := p.Run(cmd.Context(), pipeline.Options{
			Dashboard:  args[0],
			SkipFetch:  runSkipFetch,
			SkipTest:   runSkipTest,
			SkipDeploy: runSkipDeploy,
			Test:       testOpts,
			Deploy:     deployOpts,
		})
		if err != nil {
			return err
		}
		summary(cmd, "Synced %d charts from %s: %d add, %d update, %d remove",
			rep.Charts, args[0],
			rep.Changes.Count(chart.ActionAdd), rep.Changes.Count(chart.ActionUpdate), rep.Changes.Count(chart.ActionRemove))
		return nil
	},
}
