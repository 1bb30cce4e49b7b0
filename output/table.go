package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Align controls how a column pads its cells.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Header string
	Align  Align
}

// Table accumulates rows and renders them with columns aligned by display
// width. Alignment uses rune display width, so CJK account names and
// narrations line up correctly.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render writes the table to w: a header line, a dashed separator, and one
// line per row, columns separated by two spaces.
func (t *Table) Render(w io.Writer) {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = runewidth.StringWidth(col.Header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Header
	}
	t.writeRow(w, headers, widths)

	separators := make([]string, len(t.columns))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	t.writeRow(w, separators, widths)

	for _, row := range t.rows {
		t.writeRow(w, row, widths)
	}
}

func (t *Table) writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		if t.columns[i].Align == AlignRight {
			parts[i] = strings.Repeat(" ", pad) + cell
		} else {
			parts[i] = cell + strings.Repeat(" ", pad)
		}
	}
	// Trailing spaces on the last column are noise.
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

// TerminalWidth returns the width of the terminal on stdout, or a fallback
// of 80 when stdout is not a terminal.
func TerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Truncate shortens a string to at most width display columns, appending an
// ellipsis when anything was cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
