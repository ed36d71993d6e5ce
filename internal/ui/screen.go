package ui

import (
	"strings"
)

// Attr is the display attribute of a cell.
type Attr int

const (
	AttrNormal Attr = iota
	AttrHeader      // Column header row
	AttrTotal       // TOTAL row
	AttrWarn        // Notices such as "terminal too narrow"
)

// Screen is a fixed-size character surface addressed by row and column.
// Writes outside the surface are dropped.
type Screen interface {
	Size() (cols, rows int)
	ClearLine(row int)
	Print(row, col int, attr Attr, s string)
}

type cell struct {
	r    rune
	attr Attr
}

var blank = cell{r: ' ', attr: AttrNormal}

// Grid is an in-memory Screen. Content persists between frames until it is
// overwritten or cleared.
type Grid struct {
	cols  int
	rows  int
	cells [][]cell
}

// NewGrid returns a blank grid.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid dimensions, keeping the content that still fits.
func (g *Grid) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	cells := make([][]cell, rows)
	for r := range cells {
		line := make([]cell, cols)
		for c := range line {
			line[c] = blank
		}
		if r < len(g.cells) {
			copy(line, g.cells[r])
		}
		cells[r] = line
	}
	g.cols, g.rows, g.cells = cols, rows, cells
}

// Size returns the grid dimensions.
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// ClearLine blanks a whole row.
func (g *Grid) ClearLine(row int) {
	if row < 0 || row >= g.rows {
		return
	}
	for c := range g.cells[row] {
		g.cells[row][c] = blank
	}
}

// Print writes s starting at (row, col), clipped at the right edge.
func (g *Grid) Print(row, col int, attr Attr, s string) {
	if row < 0 || row >= g.rows {
		return
	}
	for _, r := range s {
		if col >= g.cols {
			return
		}
		if col >= 0 {
			g.cells[row][col] = cell{r: r, attr: attr}
		}
		col++
	}
}

// Line returns the text of a row, trailing blanks included.
func (g *Grid) Line(row int) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	var b strings.Builder
	for _, c := range g.cells[row] {
		b.WriteRune(c.r)
	}
	return b.String()
}

// AttrAt returns the attribute of one cell.
func (g *Grid) AttrAt(row, col int) Attr {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return AttrNormal
	}
	return g.cells[row][col].attr
}

// String returns the plain text of the grid.
func (g *Grid) String() string {
	lines := make([]string, g.rows)
	for r := range lines {
		lines[r] = g.Line(r)
	}
	return strings.Join(lines, "\n")
}

// Render returns the grid with runs of equal attributes styled by the
// current theme.
func (g *Grid) Render() string {
	var b strings.Builder
	var run strings.Builder
	for r, line := range g.cells {
		if r > 0 {
			b.WriteString("\n")
		}
		for c := 0; c < len(line); {
			attr := line[c].attr
			run.Reset()
			for ; c < len(line) && line[c].attr == attr; c++ {
				run.WriteRune(line[c].r)
			}
			b.WriteString(styleFor(attr).Render(run.String()))
		}
	}
	return b.String()
}
