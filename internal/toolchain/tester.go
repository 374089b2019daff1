package toolchain

import (
	"context"

	"go.uber.org/zap"
)

// npm scripts the component project defines.
const (
	ScriptUnit        = "test:lwc:unit"
	ScriptIntegration = "test:lwc:integration"
	ScriptLint        = "lint"
)

// TestOptions selects which component tests to run.
type TestOptions struct {
	Integration bool
	// CI runs the linter before the tests.
	CI bool
}

// Tester runs the component's Jest suites through npm.
type Tester struct {
	Runner Runner
	// Dir is the project root holding package.json.
	Dir    string
	Logger *zap.Logger
}

// Run executes the lint script when opts.CI is set, then the unit or
// integration suite. The first failing script stops the run.
func (t *Tester) Run(ctx context.Context, opts TestOptions) error {
	var scripts []string
	if opts.CI {
		scripts = append(scripts, ScriptLint)
	}
	if opts.Integration {
		scripts = append(scripts, ScriptIntegration)
	} else {
		scripts = append(scripts, ScriptUnit)
	}

	for _, s := range scripts {
		cmd := Command{Name: "npm", Args: []string{"run", s}, Dir: t.Dir}
		t.logger().Info("running component script", zap.String("command", cmd.String()))
		if _, err := run(ctx, t.Runner, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tester) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}
