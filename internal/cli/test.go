package cli

import (
	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/toolchain"
)

var testOpts toolchain.TestOptions

func init() {
	testCmd.Flags().BoolVar(&testOpts.Integration, "integration", false, "Run the integration suite instead of unit tests")
	testCmd.Flags().BoolVar(&testOpts.CI, "ci", false, "Lint before testing")
	rootCmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run the component's Jest tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newPipeline(cmd).Test(cmd.Context(), testOpts); err != nil {
			return err
		}
		summary(cmd, "Component tests passed")
		return nil
	},
}
