package decode

import (
	"fmt"
	"strings"

	"signalmap/internal/table"
)

// textCell reports whether the reader stored the data cell at row r, column c
// (zero-based, header excluded) as text. Text cells keep their exact value
// even when it looks numeric, so ids like "001" survive.
type textCell func(r, c int) bool

// toTable converts raw rows (header first) into a Table. It returns false
// when there is nothing but blanks. isText may be nil for untyped formats.
func toTable(rows [][]string, isText textCell) (table.Table, bool) {
	rows = trimRows(rows)
	if len(rows) == 0 {
		return table.Table{}, false
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	t := table.Table{Columns: headers(rows[0], width)}
	for r, raw := range rows[1:] {
		row := make([]table.Cell, width)
		for i := 0; i < width && i < len(raw); i++ {
			c := table.ParseCell(raw[i])
			if c.Kind == table.Number && isText != nil && isText(r, i) {
				c = table.TextCell(strings.TrimSpace(raw[i]))
			}
			row[i] = c
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

// headers names every column. Blank headers become Column_<n>; repeated
// names get a numeric suffix so column identity stays unique.
func headers(raw []string, width int) []string {
	out := make([]string, width)
	used := make(map[string]bool, width)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(raw) {
			h = strings.TrimSpace(raw[i])
		}
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// trimRows drops trailing blank cells and trailing blank rows.
func trimRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		end := len(row)
		for end > 0 && strings.TrimSpace(row[end-1]) == "" {
			end--
		}
		out = append(out, row[:end])
	}
	end := len(out)
	for end > 0 && len(out[end-1]) == 0 {
		end--
	}
	return out[:end]
}
