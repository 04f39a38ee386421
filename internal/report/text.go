package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText writes doc as an aligned plain-text summary.
func WriteText(w io.Writer, doc Document) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, doc.Title)
	if doc.Client != "" {
		fmt.Fprintf(tw, "Cliente: %s\n", doc.Client)
	}
	fmt.Fprintf(tw, "Gerado em %s\n", doc.GeneratedAt)

	for _, s := range doc.Sections {
		fmt.Fprintf(tw, "\n%s\n%s\n", s.Title, strings.Repeat("-", len([]rune(s.Title))))
		for _, l := range s.Lines {
			fmt.Fprintf(tw, "%s\t%s\t\n", l.Label, l.Value)
		}
	}
	return tw.Flush()
}
