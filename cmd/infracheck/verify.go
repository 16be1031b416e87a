package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"infra-check/decision/descriptor"
	"infra-check/decision/render"
	"infra-check/decision/resolver"
	awsstrategies "infra-check/decision/resolver/strategies/aws"
	"infra-check/decision/verify"
)

// =============================================================================
// VERIFY COMMAND
// =============================================================================

func verifyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check that every component in a descriptor exists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the deployment descriptor (YAML)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format (text, table, json, markdown)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			return runVerify(c, e)
		},
	}
}

func runVerify(c *cli.Context, e *env) error {
	ctx := c.Context

	format, err := render.ParseFormat(c.String("format"))
	if err != nil {
		return &exitError{code: ExitInputError, err: err}
	}

	// The descriptor is fully loaded before any provider call.
	doc, err := descriptor.NewParser().ParseFile(c.String("file"))
	if err != nil {
		return err
	}
	stats := doc.Stats()
	e.logger.Info().
		Str("descriptor", doc.Path).
		Int("components", stats.Components).
		Int("connections", stats.Connections).
		Msg("descriptor loaded")
	if invalid := doc.InvalidRecords(); len(invalid) > 0 {
		e.logger.Warn().Strs("records", invalid).Msg("incomplete records will be reported without a lookup")
	}

	dir, region, err := e.open(ctx, pickRegion(e.cfg.Region, doc.Region))
	if err != nil {
		return err
	}

	registry := resolver.NewRegistry()
	awsstrategies.RegisterAllStrategies(registry)

	report := verify.NewBuilder(registry, dir, verify.WithLogger(e.logger)).Run(ctx, doc)
	report.Region = region

	err = e.write(c.String("output"), func(w io.Writer, color bool) error {
		return render.Report(w, report, format, render.Options{Color: color})
	})
	if err != nil {
		return err
	}

	if !report.AllFound() {
		return &exitError{code: ExitNotAllFound}
	}
	return nil
}
