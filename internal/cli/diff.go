package cli

import (
	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/instruct"
)

func init() {
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(instructionsCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the dashboard and component chart sets",
	Long: `Reconcile the charts file against the component charts file and write the
resulting change requests and their instructions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline(cmd)
		authoritative, err := chart.LoadSet(p.Paths.ChartsFile)
		if err != nil {
			return err
		}
		current, err := chart.LoadSet(p.Paths.RevEngChartsFile)
		if err != nil {
			return err
		}
		cs, err := p.Diff(authoritative, current)
		if err != nil {
			return err
		}
		summary(cmd, "Wrote %d change requests to %s (%d add, %d update, %d remove)",
			len(cs.Changes), p.Paths.ChangeRequestsFile,
			cs.Count(chart.ActionAdd), cs.Count(chart.ActionUpdate), cs.Count(chart.ActionRemove))
		return nil
	},
}

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Render change requests as numbered instructions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := resolvePaths()
		cs, err := chart.LoadChangeSet(paths.ChangeRequestsFile)
		if err != nil {
			return err
		}
		if err := instruct.WriteFile(paths.InstructionsFile, cs); err != nil {
			return err
		}
		summary(cmd, "Wrote instructions for %d change requests to %s", len(cs.Changes), paths.InstructionsFile)
		return nil
	},
}
