package render

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"infra-check/decision/resolver"
	"infra-check/decision/verify"
)

// Text writes one block per component with its connections nested below it:
//
//	✔ [ApplicationLoadBalancer] orders-alb
//	  id=arn:aws:elasticloadbalancing:...
//	  type=application
//	  ↳ ✔ [EKSCluster] platform
//	      id=arn:aws:eks:...
//	2/2 found
func Text(w io.Writer, report *verify.Report, opts Options) error {
	p := newPalette(opts.Color)
	bw := bufio.NewWriter(w)

	for _, c := range report.Components {
		fmt.Fprintf(bw, "%s [%s] %s\n", p.glyph(c.Verdict.Status), c.Component.Type, c.Component.Name)
		writeVerdict(bw, p, c.Verdict, "  ")

		for _, conn := range report.ConnectionsUnder(c.Seq) {
			indent := strings.Repeat("  ", conn.Depth)
			fmt.Fprintf(bw, "%s↳ %s [%s] %s\n", indent, p.glyph(conn.Verdict.Status), conn.Component.Type, conn.Component.Name)
			writeVerdict(bw, p, conn.Verdict, indent+"    ")
		}
	}

	fmt.Fprintln(bw, p.bold.Render(SummaryLine(report.Summary)))
	return bw.Flush()
}

func writeVerdict(w io.Writer, p palette, v resolver.Verdict, indent string) {
	if v.Identifier != "" {
		fmt.Fprintf(w, "%sid=%s\n", indent, v.Identifier)
	}
	for _, key := range sortedKeys(v.Fields) {
		fmt.Fprintf(w, "%s%s\n", indent, p.muted.Render(key+"="+v.Fields[key]))
	}
	switch v.Status {
	case resolver.StatusError:
		fmt.Fprintf(w, "%serror=%s\n", indent, v.Error)
		if v.ErrorClass != "" {
			fmt.Fprintf(w, "%sclass=%s\n", indent, v.ErrorClass)
		}
	case resolver.StatusFound:
	default:
		if v.Detail != "" {
			fmt.Fprintf(w, "%s%s\n", indent, v.Detail)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
