package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/urfave/cli/v2"

	"infra-check/decision/render"
	"infra-check/decision/resolver"
	awsstrategies "infra-check/decision/resolver/strategies/aws"
)

// =============================================================================
// TYPES COMMAND
// =============================================================================

func typesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "List the component types that can be verified",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format (text, json)",
			},
		},
		Action: func(c *cli.Context) error {
			registry := resolver.NewRegistry()
			awsstrategies.RegisterAllStrategies(registry)

			types := registry.Types()
			aliases := registry.Aliases()

			if c.String("format") == "json" {
				return render.JSON(e.stdout, struct {
					Types   []string          `json:"types"`
					Aliases map[string]string `json:"aliases"`
				}{types, aliases})
			}
			return writeTypes(e.stdout, types, aliases)
		},
	}
}

func writeTypes(w io.Writer, types []string, aliases map[string]string) error {
	for _, t := range types {
		fmt.Fprintln(w, t)
	}

	names := make([]string, 0, len(aliases))
	for a := range aliases {
		names = append(names, a)
	}
	sort.Strings(names)

	if len(names) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Aliases:")
	}
	for _, a := range names {
		fmt.Fprintf(w, "  %s -> %s\n", a, aliases[a])
	}
	return nil
}
