package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sells-group/lead-enricher/internal/model"
)

// DefaultTableWidth is the summary column width used when none is given.
const DefaultTableWidth = 80

// RenderTable writes an aligned table of the report. Summaries are flattened
// to one line and cut to width runes.
func RenderTable(w io.Writer, r *model.Report, width int) error {
	if width <= 0 {
		width = DefaultTableWidth
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := r.Header()
	_, _ = fmt.Fprintf(tw, "#\t%s\t%s\n", strings.ToUpper(header[0]), strings.ToUpper(header[1]))
	_, _ = fmt.Fprintln(tw, "-\t-------\t-------")

	for i, row := range r.Rows() {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, row[0], truncate(flatten(row[1]), width))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d rows, %d succeeded, %d failed\n", r.Len(), r.Succeeded(), r.Failed())
	return err
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
