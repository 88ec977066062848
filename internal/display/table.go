package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type rowStyle int

const (
	rowPlain rowStyle = iota
	rowAccent
	rowMuted
)

// Table renders an aligned text table. Column widths are measured in
// terminal cells so Arabic and wide names line up.
type Table struct {
	headers []string
	rows    [][]string
	styles  []rowStyle
}

// NewTable creates a new table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing trailing cells render empty.
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
	t.styles = append(t.styles, rowPlain)
}

// Highlight marks row idx (0-based) as the accent row.
func (t *Table) Highlight(idx int) {
	t.setStyle(idx, rowAccent)
}

// Mute dims row idx, typically a prayer that has passed.
func (t *Table) Mute(idx int) {
	t.setStyle(idx, rowMuted)
}

func (t *Table) setStyle(idx int, s rowStyle) {
	if idx >= 0 && idx < len(t.styles) {
		t.styles[idx] = s
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render produces the table with a two-space indent and a trailing newline.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	sb.WriteString("  " + Dim(strings.Join(seps, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch t.styles[i] {
		case rowAccent:
			line = Accent(line)
		case rowMuted:
			line = Gray(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// formatRow pads every cell to its column width and drops trailing blanks.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = runewidth.FillRight(cell, w)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
