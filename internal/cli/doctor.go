package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andbeder/PurpleFox/internal/chart"
	"github.com/andbeder/PurpleFox/internal/component"
	"github.com/andbeder/PurpleFox/internal/jslit"
	"github.com/andbeder/PurpleFox/internal/salesforce"
	"github.com/andbeder/PurpleFox/internal/toolchain"
)

var (
	checkTools     bool
	checkToken     bool
	checkComponent bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkTools, "check-tools", false, "Verify node, npm and sf are available")
	doctorCmd.Flags().BoolVar(&checkToken, "check-token", false, "Verify the access token file")
	doctorCmd.Flags().BoolVar(&checkComponent, "check-component", false, "Verify the component files can be patched")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local environment",
	Long:  `Run diagnostic checks on the tools, token and component the pipeline needs.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := !checkTools && !checkToken && !checkComponent
		w := cmd.OutOrStdout()
		failed := 0
		if all || checkTools {
			failed += runToolsCheck(cmd, w)
		}
		if all || checkToken {
			failed += runTokenCheck(w)
		}
		if all || checkComponent {
			failed += runComponentCheck(w)
		}
		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func runToolsCheck(cmd *cobra.Command, w io.Writer) int {
	fmt.Fprintln(w, "Tools check:")
	failed := 0
	version, err := toolchain.CheckNode(cmd.Context(), newRunner(io.Discard, io.Discard))
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] node: %v\n", err)
		failed++
	} else {
		fmt.Fprintf(w, "  [ OK ] node %s satisfies %s\n", version, toolchain.NodeConstraint)
	}
	for _, name := range []string{"npm", "sf"} {
		path, err := toolchain.LookTool(name)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s not found\n", name)
			failed++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	}
	return failed
}

func runTokenCheck(w io.Writer) int {
	fmt.Fprintln(w, "Token check:")
	paths := resolvePaths()
	if _, err := salesforce.ReadToken(paths.TokenFile); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", paths.TokenFile)
	return 0
}

func runComponentCheck(w io.Writer) int {
	fmt.Fprintln(w, "Component check:")
	paths := resolvePaths()
	failed := 0

	js, err := chart.ReadFile(paths.ComponentJS)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		failed++
	default:
		if _, err := component.ParseSettings(string(js)); err != nil {
			if errors.Is(err, jslit.ErrMarkerNotFound) {
				fmt.Fprintf(w, "  [FAIL] %s has no %q\n", paths.ComponentJS, component.SettingsMarker)
			} else {
				fmt.Fprintf(w, "  [FAIL] %s: %v\n", paths.ComponentJS, err)
			}
			failed++
		} else {
			fmt.Fprintf(w, "  [ OK ] %s\n", paths.ComponentJS)
		}
	}

	if _, err := chart.ReadFile(paths.ComponentHTML); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		failed++
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", paths.ComponentHTML)
	}
	return failed
}
