package backend

import "strings"

type cell struct {
	r     rune
	style Style
}

var blank = cell{r: ' '}

// Grid is an in-memory cell surface shared by the backends that draw
// without tcell.
type Grid struct {
	width, height int
	cells         [][]cell
}

// NewGrid creates a blank grid.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Resize changes the dimensions and blanks the grid.
func (g *Grid) Resize(width, height int) {
	g.width, g.height = max(width, 0), max(height, 0)
	g.cells = make([][]cell, g.height)
	for y := range g.cells {
		g.cells[y] = make([]cell, g.width)
	}
	g.Clear()
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Set sets a cell, ignoring positions outside the grid.
func (g *Grid) Set(x, y int, r rune, style Style) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = cell{r: r, style: style}
	}
}

// Get returns the rune and style at a position, or a blank for positions
// outside the grid.
func (g *Grid) Get(x, y int) (rune, Style) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		c := g.cells[y][x]
		return c.r, c.style
	}
	return blank.r, blank.style
}

// Clear blanks every cell.
func (g *Grid) Clear() {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = blank
		}
	}
}

// Row returns the text of row y with trailing blanks removed.
func (g *Grid) Row(y int) string {
	if y < 0 || y >= g.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range g.cells[y] {
		sb.WriteRune(c.r)
	}
	return strings.TrimRight(sb.String(), " ")
}
