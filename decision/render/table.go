package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"infra-check/decision/resolver"
	"infra-check/decision/verify"
)

// row flattens components and connections into one sequence-ordered list
type row struct {
	seq           int
	parent        string
	componentType string
	name          string
	verdict       resolver.Verdict
}

func rows(report *verify.Report) []row {
	out := make([]row, 0, len(report.Components)+len(report.Connections))
	for _, c := range report.Components {
		out = append(out, row{seq: c.Seq, componentType: c.Component.Type, name: c.Component.Name, verdict: c.Verdict})
		for _, conn := range report.ConnectionsUnder(c.Seq) {
			out = append(out, row{
				seq:           conn.Seq,
				parent:        conn.Parent,
				componentType: conn.Component.Type,
				name:          conn.Component.Name,
				verdict:       conn.Verdict,
			})
		}
	}
	return out
}

// detail is the one-line explanation shown next to a verdict
func detail(v resolver.Verdict) string {
	if v.Status == resolver.StatusError {
		return v.Error
	}
	return v.Detail
}

// Table writes the report as a bordered grid followed by the summary line
func Table(w io.Writer, report *verify.Report, opts Options) error {
	p := newPalette(opts.Color)
	all := rows(report)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers("#", "PARENT", "TYPE", "NAME", "STATUS", "IDENTIFIER", "DETAIL")

	for _, r := range all {
		t.Row(
			strconv.Itoa(r.seq),
			r.parent,
			r.componentType,
			r.name,
			Glyph(r.verdict.Status)+" "+string(r.verdict.Status),
			r.verdict.Identifier,
			truncate(detail(r.verdict), 60),
		)
	}

	t.StyleFunc(func(rowIdx, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if rowIdx == table.HeaderRow {
			return base.Inherit(p.bold)
		}
		if col == 4 && rowIdx >= 0 && rowIdx < len(all) {
			return base.Inherit(p.status[all[rowIdx].verdict.Status])
		}
		return base
	})

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, p.bold.Render(SummaryLine(report.Summary)))
	return err
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
