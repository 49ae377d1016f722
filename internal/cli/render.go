package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"freightbook/internal/core"
)

// renderTable prints a table's grid with the fixed column labels as the
// header row, one ledger row per line.
func renderTable(out io.Writer, t *core.Table) error {
	fmt.Fprintf(out, "%s  %s  (start %s, %d rows)\n", t.ID, t.Name, t.StartDate, len(t.Rows))

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprint(w, "#")
	for _, c := range core.FixedColumns {
		fmt.Fprintf(w, "\t%s", c.Label)
	}
	fmt.Fprintln(w)
	for i, row := range t.Rows {
		fmt.Fprintf(w, "%d", i)
		for _, c := range core.FixedColumns {
			fmt.Fprintf(w, "\t%s", row.Get(c.Key))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
