package extract

import (
	"regexp"
	"strings"
)

var reCellGap = regexp.MustCompile(`\s{2,}|\t`)

// tablesFromPageText recovers simple column-aligned tables from layout text.
// A run of two or more consecutive lines that split into the same number of
// cells (two or more) on wide whitespace gaps is treated as one table.
func tablesFromPageText(text string) []Table {
	var tables []Table
	var current Table
	cols := 0

	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
		cols = 0
	}

	for _, line := range strings.Split(text, "\n") {
		cells := splitCells(line)
		if len(cells) < 2 {
			flush()
			continue
		}
		if cols != 0 && len(cells) != cols {
			flush()
		}
		cols = len(cells)
		current = append(current, cells)
	}
	flush()
	return tables
}

func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := reCellGap.Split(line, -1)
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}
