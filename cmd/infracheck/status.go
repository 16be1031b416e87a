package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"infra-check/decision/status"
)

// =============================================================================
// STATUS COMMAND
// =============================================================================

func statusCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show deployment status reported by the deployment CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "correlation-id",
				Aliases: []string{"c"},
				Usage:   "Deployment correlation id",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Deployment descriptor to query status for",
			},
			&cli.StringFlag{
				Name:    "binary",
				Value:   status.DefaultBinary,
				Usage:   "Deployment CLI executable",
				EnvVars: []string{"INFRACHECK_EAC_BINARY"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: status.DefaultTimeout,
				Usage: "Timeout for the deployment CLI",
			},
		},
		Action: func(c *cli.Context) error {
			runner := status.NewRunner(c.String("binary"), c.Duration("timeout"), e.logger)

			res, err := runner.Run(c.Context, status.Request{
				CorrelationID:  c.String("correlation-id"),
				DescriptorPath: c.String("file"),
			})
			if res != nil {
				relay(e.stdout, res.Stdout)
				relay(e.stderr, res.Stderr)
			}
			switch {
			case errors.Is(err, status.ErrInvalidRequest):
				return &exitError{code: ExitInputError, err: err}
			case errors.Is(err, status.ErrBinaryNotFound):
				return &exitError{code: ExitSetupError, err: err}
			case err != nil:
				return err
			}

			if res.ExitCode != 0 {
				return &exitError{code: res.ExitCode}
			}
			return nil
		},
	}
}

func relay(w io.Writer, s string) {
	if s != "" {
		fmt.Fprint(w, s)
	}
}
