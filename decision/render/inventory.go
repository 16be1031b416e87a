package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"infra-check/decision/inventory"
	"infra-check/decision/resolver"
)

// maxARNWidth caps the ARN column of inventory tables
const maxARNWidth = 120

// InventoryTable writes per-service counts followed by a grid of every
// resource in the inventory.
func InventoryTable(w io.Writer, inv *inventory.Inventory, opts Options) error {
	p := newPalette(opts.Color)

	fmt.Fprintln(w, p.bold.Render(fmt.Sprintf("Resources in region: %s", inv.Region)))
	for _, s := range inv.ServiceNames() {
		fmt.Fprintf(w, "  %s: %d resources\n", s, inv.Services[s])
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers("SERVICE", "RESOURCE TYPE", "NAME", "REGION", "ARN").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Padding(0, 1).Inherit(p.bold)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range inv.Resources {
		t.Row(r.Service, r.ResourceType, r.Name, r.Region, ShortenMiddle(r.ARN, maxARNWidth))
	}
	fmt.Fprintln(w, t.String())

	_, err := fmt.Fprintf(w, "Total: %d resources across %d services\n", len(inv.Resources), len(inv.Services))
	return err
}

// ComparisonText writes the per-ARN and per-component outcome of a comparison
func ComparisonText(w io.Writer, c *inventory.Comparison, opts Options) error {
	p := newPalette(opts.Color)
	mark := func(ok bool) string {
		if ok {
			return p.glyph(resolver.StatusFound)
		}
		return p.glyph(resolver.StatusNotFound)
	}

	if len(c.ARNs) > 0 {
		fmt.Fprintln(w, p.bold.Render("Declared ARNs"))
		for _, m := range c.ARNs {
			fmt.Fprintf(w, "%s %s\n", mark(m.Exists), m.ARN)
		}
	}

	fmt.Fprintln(w, p.bold.Render("Components"))
	for _, m := range c.Components {
		fmt.Fprintf(w, "%s [%s] %s (%d matches)\n", mark(m.Exists), m.Type, m.Name, len(m.Matches))
		for _, r := range m.Matches {
			fmt.Fprintf(w, "    %s\n", p.muted.Render(ShortenMiddle(r.ARN, maxARNWidth)))
		}
	}
	return nil
}

// ShortenMiddle cuts s to max runes by replacing its middle with "..."
func ShortenMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	keep := (max - 3) / 2
	if keep <= 0 {
		return string(r[:max])
	}
	return string(r[:keep]) + "..." + string(r[len(r)-keep:])
}
