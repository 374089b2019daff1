package toolchain

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultWaitMinutes is how long sf waits for a deployment to finish.
const DefaultWaitMinutes = 10

// DeployOptions configures one deployment.
type DeployOptions struct {
	SourceDir string
	// CheckOnly validates the deployment without committing it.
	CheckOnly bool
	Verbose   bool
	Wait      int
	// Token is exported to sf as SF_ACCESS_TOKEN.
	Token string
}

// DeployResult describes a finished deployment.
type DeployResult struct {
	Command    Command
	ReportPath string
	Status     string
	Success    bool
}

// Deployer deploys component sources with the Salesforce CLI.
type Deployer struct {
	Runner     Runner
	ReportsDir string
	Logger     *zap.Logger
	// Now stamps report names; defaults to time.Now.
	Now func() time.Time
}

// sfReport is the part of sf's --json output that is logged.
type sfReport struct {
	Status int `json:"status"`
	Result struct {
		Status                   string `json:"status"`
		Success                  bool   `json:"success"`
		NumberComponentsDeployed int    `json:"numberComponentsDeployed"`
		NumberComponentErrors    int    `json:"numberComponentErrors"`
	} `json:"result"`
	Message string `json:"message"`
}

// Command builds the sf invocation for opts.
func (d *Deployer) Command(opts DeployOptions) (Command, error) {
	src, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return Command{}, fmt.Errorf("resolving source dir: %w", err)
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = DefaultWaitMinutes
	}

	verb := "start"
	if opts.CheckOnly {
		verb = "validate"
	}
	args := []string{"project", "deploy", verb, "--source-dir", src, "--wait", strconv.Itoa(wait), "--json"}
	if opts.Verbose {
		args = append(args, "--verbose")
	}

	cmd := Command{Name: "sf", Args: args}
	if opts.Token != "" {
		cmd.Env = []string{"SF_ACCESS_TOKEN=" + opts.Token}
	}
	return cmd, nil
}

// Deploy runs sf and writes its JSON output to a timestamped report under
// ReportsDir. The report is written even when the deployment fails.
func (d *Deployer) Deploy(ctx context.Context, opts DeployOptions) (*DeployResult, error) {
	cmd, err := d.Command(opts)
	if err != nil {
		return nil, err
	}
	log := d.logger()
	log.Info("deploying", zap.String("command", cmd.String()))

	out, runErr := d.Runner.Run(ctx, cmd)
	if runErr != nil {
		return nil, runErr
	}

	res := &DeployResult{Command: cmd}
	res.ReportPath, err = d.writeReport(out.Stdout)
	if err != nil {
		return nil, err
	}

	var report sfReport
	if json.Unmarshal([]byte(out.Stdout), &report) == nil {
		res.Status = report.Result.Status
		res.Success = report.Status == 0 && report.Result.Success
		log.Info("deployment finished",
			zap.String("status", report.Result.Status),
			zap.Int("components", report.Result.NumberComponentsDeployed),
			zap.Int("errors", report.Result.NumberComponentErrors),
			zap.String("report", res.ReportPath))
	}

	if out.ExitCode != 0 {
		msg := report.Message
		if msg == "" {
			msg = strings.TrimSpace(out.Stderr)
		}
		return res, fmt.Errorf("%w: %s exited with status %d: %s (report %s)",
			ErrToolFailed, cmd.Name, out.ExitCode, msg, res.ReportPath)
	}
	return res, nil
}

func (d *Deployer) writeReport(content string) (string, error) {
	dir := d.ReportsDir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now().UTC().Format("2006-01-02T15:04:05.000Z"))
	path := filepath.Join(dir, "deploy-report-"+stamp+".json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing deploy report: %w", err)
	}
	return path, nil
}

func (d *Deployer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
