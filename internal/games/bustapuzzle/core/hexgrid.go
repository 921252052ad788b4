package core

import (
	"fmt"
	"math"

	platform "github.com/vovakirdan/bustapuzzle/internal/core"
)

// AnchorRow is the reserved row above row 0 that holds ceiling anchors at stage start.
const AnchorRow = -1

// Cell is a discrete hex-grid position. Rows increase downward.
type Cell struct {
	Row int
	Col int
}

// C is a convenience constructor for Cell.
func C(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid maps between continuous board coordinates and staggered hex cells.
//
// Board coordinates have their origin at the top-left corner of the play
// field: x grows right, y grows down, the ceiling is y = 0. Staggered rows are
// shifted right by one radius and hold one fewer bubble.
type Grid struct {
	Columns  int
	Rows     int
	Radius   float64
	Diameter float64
	YSpace   float64 // sqrt(diameter² − radius²) = sqrt(3)·radius

	// Shifts counts board shifts. Each shift moves every bubble one logical row
	// down without moving it horizontally, so the stagger parity flips with it.
	Shifts int
}

// NewGrid creates a grid for the given dimensions and bubble radius.
func NewGrid(columns, rows int, radius float64) Grid {
	d := radius * 2
	return Grid{
		Columns:  columns,
		Rows:     rows,
		Radius:   radius,
		Diameter: d,
		YSpace:   math.Sqrt(d*d - radius*radius),
	}
}

// Width returns the play field width.
func (g Grid) Width() float64 {
	return float64(g.Columns) * g.Diameter
}

// KillLineY returns the y threshold past which a bubble centre ends the game.
func (g Grid) KillLineY() float64 {
	return float64(g.Rows) * g.YSpace
}

// Staggered reports whether the given row is offset by half a cell.
func (g Grid) Staggered(row int) bool {
	return mod2(row-g.Shifts) == 1
}

// MaxCol returns the last valid column index of a row.
func (g Grid) MaxCol(row int) int {
	if g.Staggered(row) {
		return g.Columns - 2
	}
	return g.Columns - 1
}

// ValidColumn reports whether the column exists in the cell's row.
func (g Grid) ValidColumn(c Cell) bool {
	return c.Col >= 0 && c.Col <= g.MaxCol(c.Row)
}

// Contains reports whether the cell lies inside the stage area [-1, Rows).
func (g Grid) Contains(c Cell) bool {
	return c.Row >= AnchorRow && c.Row < g.Rows && g.ValidColumn(c)
}

// Placeable reports whether a bubble may occupy the cell. Rows below the
// stage area are placeable; a bubble there has crossed the kill line.
func (g Grid) Placeable(c Cell) bool {
	return c.Row >= AnchorRow && g.ValidColumn(c)
}

// Center returns the pixel centre of a cell.
func (g Grid) Center(c Cell) platform.Vec2 {
	x := g.Radius + float64(c.Col)*g.Diameter
	if g.Staggered(c.Row) {
		x += g.Radius
	}
	return platform.V(x, g.Radius+float64(c.Row)*g.YSpace)
}

// CellOf returns the cell whose centre is nearest to p, snapping to rows first.
func (g Grid) CellOf(p platform.Vec2) Cell {
	row := int(math.Round((p.Y - g.Radius) / g.YSpace))
	x := p.X - g.Radius
	if g.Staggered(row) {
		x -= g.Radius
	}
	return C(row, int(math.Round(x/g.Diameter)))
}

// NeighborCells returns the six hex neighbours of c: right, upper-right,
// upper-left, left, lower-left, lower-right. Cells may lie off the grid.
func (g Grid) NeighborCells(c Cell) [6]Cell {
	// In a staggered row the diagonal neighbours sit at col and col+1;
	// in a flush row at col-1 and col.
	lo, hi := c.Col-1, c.Col
	if g.Staggered(c.Row) {
		lo, hi = c.Col, c.Col+1
	}
	return [6]Cell{
		C(c.Row, c.Col+1),
		C(c.Row-1, hi),
		C(c.Row-1, lo),
		C(c.Row, c.Col-1),
		C(c.Row+1, lo),
		C(c.Row+1, hi),
	}
}

func mod2(n int) int {
	return ((n % 2) + 2) % 2
}
