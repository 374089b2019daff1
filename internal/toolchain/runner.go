package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrToolFailed reports an external tool that exited with a non-zero status.
var ErrToolFailed = errors.New("tool failed")

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env holds KEY=VALUE pairs added to the inherited environment.
	Env []string
}

// String returns the command line as typed in a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Output captures the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands. A non-zero exit is reported in Output, not as an
// error; errors are for commands that could not run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// Stdout and Stderr receive a live copy of the output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes cmd, streaming and capturing its output.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	bin, err := exec.LookPath(cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("%s is required: %w", cmd.Name, err)
	}

	c := exec.CommandContext(ctx, bin, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = os.Environ()
	for _, kv := range cmd.Env {
		key, value, _ := strings.Cut(kv, "=")
		c.Env = setEnv(c.Env, key, value)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	c.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = c.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", cmd, err)
	}
	return output, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// run executes cmd and turns a non-zero exit into ErrToolFailed.
func run(ctx context.Context, r Runner, cmd Command) (*Output, error) {
	out, err := r.Run(ctx, cmd)
	if err != nil {
		return out, err
	}
	if out.ExitCode != 0 {
		return out, fmt.Errorf("%w: %s exited with status %d", ErrToolFailed, cmd, out.ExitCode)
	}
	return out, nil
}
