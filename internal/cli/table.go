// Package cli provides table helpers for human-readable output.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const tablePadding = 2

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// writeTable writes aligned columns. A column with an empty header and no
// values in any row is left out, so optional columns such as preview
// swatches disappear when unused.
func writeTable(out io.Writer, headers []string, rows [][]string) error {
	keep := visibleColumns(headers, rows)

	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', 0)
	if len(headers) > 0 {
		fmt.Fprintln(writer, joinCells(headers, keep))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, joinCells(row, keep))
	}
	return writer.Flush()
}

func visibleColumns(headers []string, rows [][]string) []bool {
	width := len(headers)
	for _, row := range rows {
		width = max(width, len(row))
	}

	keep := make([]bool, width)
	for i, header := range headers {
		keep[i] = strings.TrimSpace(header) != ""
	}
	for _, row := range rows {
		for i, cell := range row {
			if cell != "" {
				keep[i] = true
			}
		}
	}
	return keep
}

func joinCells(cells []string, keep []bool) string {
	out := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i < len(keep) && !keep[i] {
			continue
		}
		out = append(out, cellReplacer.Replace(cell))
	}
	return strings.TrimRight(strings.Join(out, "\t"), "\t")
}

// formatYesNo renders a flag column; "no" is shown as "-" so set flags stand out.
func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "-"
}
