package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"DepthScan/internal/model"
)

const bannerWidth = 85

// Print renders the title banner and the first Preview rows of r.
// Reports with a zero Preview are not printed.
func Print(out io.Writer, r model.Report) {
	if r.Preview <= 0 {
		return
	}
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(out, "\n%s\n %s\n%s\n", banner, r.Title, banner)
	if len(r.Rows) == 0 {
		fmt.Fprintln(out, "(no matching symbols)")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.Header, "\t"))
	rows := r.Rows
	if len(rows) > r.Preview {
		rows = rows[:r.Preview]
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
