package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"infra-check/decision/verify"
)

// Markdown writes the report as a markdown document with one table row per
// component and connection.
func Markdown(w io.Writer, report *verify.Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "## Infrastructure Verification Report")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "| Metric | Value |")
	fmt.Fprintln(bw, "|--------|-------|")
	if report.Descriptor != "" {
		fmt.Fprintf(bw, "| **Descriptor** | `%s` |\n", report.Descriptor)
	}
	if report.Region != "" {
		fmt.Fprintf(bw, "| **Region** | %s |\n", report.Region)
	}
	if report.Account != "" {
		fmt.Fprintf(bw, "| **Account** | %s |\n", report.Account)
	}
	fmt.Fprintf(bw, "| **Found** | %s |\n", SummaryLine(report.Summary))
	if report.Summary.Unsupported > 0 {
		fmt.Fprintf(bw, "| **Unsupported** | %d |\n", report.Summary.Unsupported)
	}
	if report.Summary.Errors > 0 {
		fmt.Fprintf(bw, "| **Errors** | %d |\n", report.Summary.Errors)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "### Components")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "| # | Parent | Type | Name | Status | Identifier | Detail |")
	fmt.Fprintln(bw, "|---|--------|------|------|--------|------------|--------|")

	for _, row := range rows(report) {
		fmt.Fprintf(bw, "| %d | %s | %s | %s | %s %s | %s | %s |\n",
			row.seq,
			mdEscape(row.parent),
			mdEscape(row.componentType),
			mdEscape(row.name),
			Glyph(row.verdict.Status), row.verdict.Status,
			mdEscape(row.verdict.Identifier),
			mdEscape(detail(row.verdict)),
		)
	}

	return bw.Flush()
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
