// Package status relays the deployment status reported by the external
// deployment CLI.
package status

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBinary is the deployment CLI looked up on PATH
	DefaultBinary = "eac"

	// DefaultTimeout bounds one status invocation
	DefaultTimeout = 2 * time.Minute
)

var (
	// ErrBinaryNotFound is returned when the deployment CLI cannot be located
	ErrBinaryNotFound = errors.New("deployment CLI not found")

	// ErrInvalidRequest is returned unless exactly one of CorrelationID and
	// DescriptorPath is set
	ErrInvalidRequest = errors.New("exactly one of correlation id or descriptor path is required")

	// ErrTimeout is returned when the CLI does not finish in time
	ErrTimeout = errors.New("deployment CLI timed out")
)

// Request selects the deployment to query
type Request struct {
	CorrelationID  string
	DescriptorPath string
}

// Args returns the CLI arguments for the request
func (r Request) Args() ([]string, error) {
	id := strings.TrimSpace(r.CorrelationID)
	path := strings.TrimSpace(r.DescriptorPath)
	switch {
	case id != "" && path == "":
		return []string{"deployment", "status", "-c", id}, nil
	case path != "" && id == "":
		return []string{"deployment", "status", "-f", path}, nil
	default:
		return nil, ErrInvalidRequest
	}
}

// Result is the captured outcome of one CLI run. A non-zero ExitCode is a
// result, not an error.
type Result struct {
	Command  []string `json:"command"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Runner invokes the deployment CLI
type Runner struct {
	Binary  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewRunner creates a runner with defaults for empty values
func NewRunner(binary string, timeout time.Duration, logger zerolog.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Binary: binary, Timeout: timeout, Logger: logger}
}

// Run executes `<binary> deployment status -c <id>` or `... -f <path>` and
// captures its output.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	args, err := req.Args()
	if err != nil {
		return nil, err
	}

	path, err := exec.LookPath(r.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, r.Binary)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, path, args...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &Result{Command: append([]string{r.Binary}, args...)}
	r.Logger.Debug().Strs("command", result.Command).Msg("running deployment status")

	err = cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("failed to run %s: %w", r.Binary, err)
	}

	r.Logger.Debug().Int("exit_code", result.ExitCode).Msg("deployment status finished")
	return result, nil
}
