// infracheck - deployment descriptor verification against live AWS
//
// Usage:
//
//	infracheck verify --file deployment_apply.yaml [--format text|table|json|markdown]
//	infracheck inventory --file deployment_apply.yaml --region us-east-1
//	infracheck status --correlation-id <id>
//	infracheck types
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"infra-check/decision/directory"
	checkerrors "infra-check/pkg/errors"
	"infra-check/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes
const (
	ExitOK          = 0
	ExitNotAllFound = 1
	ExitInputError  = 10
	ExitSetupError  = 11
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, connectAWS)
	stop()
	os.Exit(code)
}

// connectFunc builds the directory for a region. It returns the region the
// directory is actually bound to, which may come from the SDK default chain.
type connectFunc func(ctx context.Context, cfg *platform.Config, region string, logger zerolog.Logger) (directory.Directory, string, error)

func connectAWS(ctx context.Context, cfg *platform.Config, region string, logger zerolog.Logger) (directory.Directory, string, error) {
	dir, err := directory.LoadAWS(ctx, region, cfg.Profile,
		directory.WithCallTimeout(cfg.CallTimeout),
		directory.WithLogger(logger),
	)
	if err != nil {
		return nil, "", err
	}
	return dir, dir.Region(), nil
}

// env is the state shared by every command of one invocation
type env struct {
	cfg     *platform.Config
	logger  zerolog.Logger
	stdout  io.Writer
	stderr  io.Writer
	connect connectFunc
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, connect connectFunc) int {
	e := &env{
		cfg:     platform.DefaultConfig(),
		logger:  zerolog.Nop(),
		stdout:  stdout,
		stderr:  stderr,
		connect: connect,
	}

	err := newApp(e).RunContext(ctx, args)
	code := exitCode(err)

	var ee *exitError
	if err != nil && !(errors.As(err, &ee) && ee.err == nil) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}

func newApp(e *env) *cli.App {
	defaults := platform.DefaultConfig()

	return &cli.App{
		Name:      "infracheck",
		Usage:     "Verify that the infrastructure a deployment descriptor declares exists in AWS",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Writer:    e.stdout,
		ErrWriter: e.stderr,

		// Exit codes are decided in run.
		ExitErrHandler: func(*cli.Context, error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"INFRACHECK_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "AWS region; overrides the descriptor's environment.awsRegion",
				EnvVars: []string{"INFRACHECK_REGION"},
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "AWS shared config profile",
				EnvVars: []string{"AWS_PROFILE"},
			},
			&cli.DurationFlag{
				Name:  "call-timeout",
				Value: defaults.CallTimeout,
				Usage: "Timeout for each AWS API call (env INFRACHECK_CALL_TIMEOUT)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Value: !defaults.Color,
				Usage: "Disable coloured output (env NO_COLOR)",
			},
		},

		Before: func(c *cli.Context) error {
			cfg := &platform.Config{
				LogLevel:    c.String("log-level"),
				Region:      c.String("region"),
				Profile:     c.String("profile"),
				CallTimeout: c.Duration("call-timeout"),
				Color:       !c.Bool("no-color"),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = platform.InitLogger(cfg.LogLevel, e.stderr)
			return nil
		},

		Commands: []*cli.Command{
			verifyCommand(e),
			inventoryCommand(e),
			statusCommand(e),
			typesCommand(e),
		},
	}
}

// =============================================================================
// EXIT CODES
// =============================================================================

// exitError carries an explicit exit code. A nil err exits quietly.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch {
	case checkerrors.IsInputError(err), checkerrors.HasCode(err, checkerrors.ErrCodeInvalidConfig):
		return ExitInputError
	case checkerrors.HasCode(err, checkerrors.ErrCodeProviderSetup):
		return ExitSetupError
	default:
		return ExitNotAllFound
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// pickRegion applies flag over descriptor; empty defers to the SDK chain.
func pickRegion(flag, descriptor string) string {
	if flag != "" {
		return flag
	}
	return descriptor
}

func errUnknownFormat(format, want string) error {
	return fmt.Errorf("unknown format %q (want %s)", format, want)
}

// open connects to the provider, mapping failures to setup errors.
func (e *env) open(ctx context.Context, region string) (directory.Directory, string, error) {
	dir, bound, err := e.connect(ctx, e.cfg, region, e.logger)
	if err != nil {
		return nil, "", checkerrors.NewProviderSetupError(err)
	}
	e.logger.Debug().Str("region", bound).Msg("provider session ready")
	return dir, bound, nil
}

// write sends output to path, or stdout when path is empty. Colour is only
// used on an interactive stdout.
func (e *env) write(path string, fn func(w io.Writer, color bool) error) error {
	if path == "" {
		return fn(e.stdout, e.cfg.Color && platform.IsTerminal(e.stdout))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f, false); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	e.logger.Info().Str("path", path).Msg("output written")
	return nil
}
