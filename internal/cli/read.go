package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/dashboard"
	"github.com/andbeder/PurpleFox/internal/pipeline"
)

var (
	readPolicy  string
	readOffline bool
)

func init() {
	readDashboardCmd.Flags().StringVar(&readPolicy, "on-incomplete", "abort", "Incomplete widget policy: abort or skip")
	readDashboardCmd.Flags().BoolVar(&readOffline, "offline", false, "Record new style keys without fetching their documentation")
	rootCmd.AddCommand(readDashboardCmd)
	rootCmd.AddCommand(readComponentCmd)
}

var readDashboardCmd = &cobra.Command{
	Use:   "read-dashboard <dashboard>",
	Short: "Extract chart definitions from a downloaded dashboard",
	Long: `Read <work-dir>/<dashboard>.json and write its charts to the charts file.

Newly seen style keys are appended to the style ledger with a short
description from the ApexCharts documentation.

Under the abort policy a widget with no title or query skips the
dashboard: nothing is written and the command still succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := dashboard.ParsePolicy(readPolicy)
		if err != nil {
			return err
		}
		p := newPipeline(cmd)
		p.Policy = policy
		if readOffline {
			p.Docs = nil
		}

		set, err := p.ExtractDashboard(cmd.Context(), args[0])
		if errors.Is(err, pipeline.ErrAborted) {
			summary(cmd, "Skipped dashboard %s: %v", args[0], err)
			return nil
		}
		if err != nil {
			return err
		}
		summary(cmd, "Wrote %d charts to %s", len(set.Charts), p.Paths.ChartsFile)
		return nil
	},
}

var readComponentCmd = &cobra.Command{
	Use:   "read-component",
	Short: "Extract chart definitions from the generated component",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPipeline(cmd)
		set, err := p.ExtractComponent()
		if err != nil {
			return err
		}
		summary(cmd, "Wrote %d charts to %s", len(set.Charts), p.Paths.RevEngChartsFile)
		return nil
	},
}
