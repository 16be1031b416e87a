// Package render formats verification and inventory reports for output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"infra-check/decision/resolver"
	"infra-check/decision/verify"
)

// Format selects an output encoding
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatJSON, FormatMarkdown:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, table, json or markdown)", s)
	}
}

// Options control rendering
type Options struct {
	// Color enables ANSI styling in text and table output
	Color bool
}

// Report writes report to w in the requested format
func Report(w io.Writer, report *verify.Report, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, report)
	case FormatTable:
		return Table(w, report, opts)
	case FormatMarkdown:
		return Markdown(w, report)
	case FormatText, "":
		return Text(w, report, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// =============================================================================
// STYLES
// =============================================================================

var (
	colorFound    = lipgloss.Color("#2CD7C7")
	colorNotFound = lipgloss.Color("#E74C3C")
	colorWarning  = lipgloss.Color("#F4D03F")
	colorMuted    = lipgloss.Color("#2C4A54")
)

// palette holds the styles for one render. Zero styles render text unchanged,
// which is how colour is switched off.
type palette struct {
	status map[resolver.Status]lipgloss.Style
	muted  lipgloss.Style
	bold   lipgloss.Style
	border lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		return palette{status: map[resolver.Status]lipgloss.Style{}}
	}
	return palette{
		status: map[resolver.Status]lipgloss.Style{
			resolver.StatusFound:          lipgloss.NewStyle().Foreground(colorFound),
			resolver.StatusNotFound:       lipgloss.NewStyle().Foreground(colorNotFound),
			resolver.StatusError:          lipgloss.NewStyle().Foreground(colorNotFound).Bold(true),
			resolver.StatusUnsupported:    lipgloss.NewStyle().Foreground(colorWarning),
			resolver.StatusNotImplemented: lipgloss.NewStyle().Foreground(colorMuted),
		},
		muted:  lipgloss.NewStyle().Foreground(colorMuted),
		bold:   lipgloss.NewStyle().Bold(true),
		border: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

func (p palette) glyph(s resolver.Status) string {
	return p.status[s].Render(Glyph(s))
}

// Glyph returns the single character marker for a status
func Glyph(s resolver.Status) string {
	switch s {
	case resolver.StatusFound:
		return "✔"
	case resolver.StatusNotFound:
		return "✘"
	case resolver.StatusError:
		return "!"
	case resolver.StatusUnsupported:
		return "?"
	case resolver.StatusNotImplemented:
		return "-"
	default:
		return " "
	}
}

// SummaryLine returns "<found>/<total> found"
func SummaryLine(s verify.Summary) string {
	return fmt.Sprintf("%d/%d found", s.Found(), s.Total())
}
