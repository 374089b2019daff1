package cli

import (
	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/chart"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply change requests to the component",
	Long: `Patch the component's chart settings and template from the change requests
file. Text outside the settings object and the affected chart elements is left
untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline(cmd)
		cs, err := chart.LoadChangeSet(p.Paths.ChangeRequestsFile)
		if err != nil {
			return err
		}
		res, err := p.Patch(cs)
		if err != nil {
			return err
		}
		summary(cmd, "Applied %d change requests to %s (%d skipped)", res.Applied, p.Paths.ComponentJS, res.Skipped)
		return nil
	},
}
