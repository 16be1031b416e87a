package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"infra-check/decision/descriptor"
	"infra-check/decision/inventory"
	"infra-check/decision/render"
)

// =============================================================================
// INVENTORY COMMAND
// =============================================================================

func inventoryCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "List indexed resources in a region and compare them with a descriptor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Optional deployment descriptor to compare against the inventory",
			},
			&cli.StringFlag{
				Name:  "query",
				Value: "*",
				Usage: "Resource Explorer query string (e.g. service:sqs)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "table",
				Usage: "Output format (table, json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			return runInventory(c, e)
		},
	}
}

// inventoryOutput is the JSON shape of the inventory command
type inventoryOutput struct {
	Inventory  *inventory.Inventory  `json:"inventory"`
	Comparison *inventory.Comparison `json:"comparison,omitempty"`
}

func runInventory(c *cli.Context, e *env) error {
	ctx := c.Context

	format := c.String("format")
	if format != "table" && format != "json" {
		return &exitError{code: ExitInputError, err: errUnknownFormat(format, "table, json")}
	}

	var doc *descriptor.Document
	if path := c.String("file"); path != "" {
		var err error
		if doc, err = descriptor.NewParser().ParseFile(path); err != nil {
			return err
		}
	}

	descriptorRegion := ""
	if doc != nil {
		descriptorRegion = doc.Region
	}
	dir, region, err := e.open(ctx, pickRegion(e.cfg.Region, descriptorRegion))
	if err != nil {
		return err
	}

	indexes, err := inventory.Preflight(ctx, dir, region)
	if err != nil {
		return &exitError{code: ExitSetupError, err: err}
	}
	e.logger.Info().Int("indexes", len(indexes)).Str("region", region).Msg("resource index available")

	inv, err := inventory.Collect(ctx, dir, region, c.String("query"))
	if err != nil {
		return err
	}

	out := inventoryOutput{Inventory: inv}
	if doc != nil {
		out.Comparison = inventory.Compare(doc, inv)
	}

	return e.write(c.String("output"), func(w io.Writer, color bool) error {
		if format == "json" {
			return render.JSON(w, out)
		}
		opts := render.Options{Color: color}
		if err := render.InventoryTable(w, inv, opts); err != nil {
			return err
		}
		if out.Comparison != nil {
			return render.ComparisonText(w, out.Comparison, opts)
		}
		return nil
	})
}
