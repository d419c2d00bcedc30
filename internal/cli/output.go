package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/muesli/reflow/wordwrap"
)

// maxFieldWidth bounds a single tabular field before wordwrap kicks in, so
// one unusually long branch or session name can't stretch a whole table.
const maxFieldWidth = 60

// writeTable renders rows as column-aligned, single-space-padded text
// (spec.md §4.6). Alignment is tabwriter's job; wordwrap.String keeps any
// one field from running past maxFieldWidth.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	writeRow(tw, header)
	for _, row := range rows {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(tw *tabwriter.Writer, fields []string) {
	wrapped := make([]string, len(fields))
	for i, f := range fields {
		wrapped[i] = wordwrap.String(f, maxFieldWidth)
	}
	fmt.Fprintln(tw, strings.Join(wrapped, "\t"))
}

// writeJSON emits v as a single-line JSON document (spec.md §4.6: "JSON
// output is a single-line top-level object or array").
func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// WriteJSONError emits {"error": "<message>"} to w, per spec.md §6.
func WriteJSONError(w io.Writer, err error) {
	_ = writeJSON(w, map[string]string{"error": err.Error()})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
