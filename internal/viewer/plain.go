package viewer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/smileynet/custdesk/internal/store"
)

// RenderPlain writes snap as an aligned text table with headings, followed by
// a one-line summary. Used when stdout is not a terminal.
func RenderPlain(w io.Writer, snap store.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headings := make([]string, len(snap.Columns))
	for i, c := range snap.Columns {
		headings[i] = Heading(c)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headings, "\t")); err != nil {
		return err
	}
	for _, row := range snap.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			// Tabs and newlines would break column alignment.
			cells[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(v)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if snap.Degraded {
		_, err := fmt.Fprintf(w, "(records unavailable: %v)\n", snap.Err)
		return err
	}
	_, err := fmt.Fprintf(w, "(%d records)\n", len(snap.Rows))
	return err
}
