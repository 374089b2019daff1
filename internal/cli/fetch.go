package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andbeder/PurpleFox/internal/config"
)

var fetchByLabel bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchByLabel, "label", false, "Treat the argument as a dashboard label and look up its API name")
	fetchCmd.Flags().String("instance-url", "", "Org instance URL (config: instance_url)")
	fetchCmd.Flags().String("api-version", "", "REST API version (config: api_version)")
	_ = viper.BindPFlag(config.KeyInstanceURL, fetchCmd.Flags().Lookup("instance-url"))
	_ = viper.BindPFlag(config.KeyAPIVersion, fetchCmd.Flags().Lookup("api-version"))
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <dashboard>",
	Short: "Download a dashboard definition",
	Long: `Download a CRM Analytics dashboard definition to <work-dir>/<dashboard>.json
using the access token in the token file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline(cmd)
		token, err := p.Authorize()
		if err != nil {
			return err
		}

		name := args[0]
		if fetchByLabel {
			client, err := newSalesforceClient(token)
			if err != nil {
				return err
			}
			if name, err = client.LookupAPIName(cmd.Context(), name); err != nil {
				return err
			}
		}

		path, err := p.Fetch(cmd.Context(), token, name)
		if err != nil {
			return err
		}
		summary(cmd, "Saved dashboard %s to %s", name, path)
		return nil
	},
}
