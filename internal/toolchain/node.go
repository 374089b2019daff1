package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NodeConstraint is the Node.js range the component tooling supports.
const NodeConstraint = ">=18 <23"

// CheckNode runs node --version and verifies it satisfies NodeConstraint.
// It returns the detected version.
func CheckNode(ctx context.Context, r Runner) (string, error) {
	out, err := run(ctx, r, Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	version := strings.TrimSpace(out.Stdout)
	ok, err := SatisfiesNode(version)
	if err != nil {
		return version, err
	}
	if !ok {
		return version, fmt.Errorf("Node.js %s required, found %s", NodeConstraint, version)
	}
	return version, nil
}

// SatisfiesNode reports whether version (with or without a leading "v")
// falls in NodeConstraint.
func SatisfiesNode(version string) (bool, error) {
	c, err := semver.NewConstraint(NodeConstraint)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing node version %q: %w", version, err)
	}
	return c.Check(v), nil
}

// LookTool reports the path of an executable on PATH.
func LookTool(name string) (string, error) {
	return exec.LookPath(name)
}
