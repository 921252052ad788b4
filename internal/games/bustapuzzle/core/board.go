package core

import (
	"slices"

	platform "github.com/vovakirdan/bustapuzzle/internal/core"
)

// Board owns the occupied-cell mapping together with the shot-shift bookkeeping.
// It is exclusively owned by one session and is not safe for concurrent use.
type Board struct {
	grid       Grid
	cells      map[Cell]*Bubble
	shotsFired int
	shiftShots int // 0 disables shifting
}

// NewBoard creates an empty board over grid. Every shiftShots shots the board
// shifts down by one row.
func NewBoard(grid Grid, shiftShots int) *Board {
	return &Board{
		grid:       grid,
		cells:      make(map[Cell]*Bubble),
		shiftShots: shiftShots,
	}
}

// Grid returns the board geometry, including the current shift parity.
func (b *Board) Grid() Grid {
	return b.grid
}

// Len returns the number of bubbles on the board.
func (b *Board) Len() int {
	return len(b.cells)
}

// At returns the bubble at cell, if any.
func (b *Board) At(cell Cell) (*Bubble, bool) {
	bubble, ok := b.cells[cell]
	return bubble, ok
}

// Occupied reports whether cell holds a bubble.
func (b *Board) Occupied(cell Cell) bool {
	_, ok := b.cells[cell]
	return ok
}

// Place commits bubble to cell and snaps its position to the cell centre.
func (b *Board) Place(cell Cell, bubble *Bubble) error {
	if !b.grid.Placeable(cell) {
		return &OutOfBoundsError{Cell: cell}
	}
	if b.Occupied(cell) {
		return &OccupiedCellError{Cell: cell}
	}
	bubble.Cell = cell
	bubble.OnBoard = true
	bubble.Pos = b.grid.Center(cell)
	b.cells[cell] = bubble
	return nil
}

// Remove detaches and returns the bubble at cell.
func (b *Board) Remove(cell Cell) (*Bubble, error) {
	bubble, ok := b.cells[cell]
	if !ok {
		return nil, &EmptyCellError{Cell: cell}
	}
	delete(b.cells, cell)
	bubble.OnBoard = false
	return bubble, nil
}

// Cells returns the occupied cells in row-major order.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, len(b.cells))
	for c := range b.cells {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, compareCells)
	return cells
}

// Bubbles returns the bubbles on the board in row-major cell order.
func (b *Board) Bubbles() []*Bubble {
	cells := b.Cells()
	out := make([]*Bubble, len(cells))
	for i, c := range cells {
		out[i] = b.cells[c]
	}
	return out
}

// NeighborsOf returns the bubbles occupying the hex neighbours of bubble's cell.
func (b *Board) NeighborsOf(bubble *Bubble) []*Bubble {
	var out []*Bubble
	for _, n := range b.grid.NeighborCells(bubble.Cell) {
		if nb, ok := b.cells[n]; ok {
			out = append(out, nb)
		}
	}
	return out
}

// ShotsFired returns the shots counted toward the next shift.
func (b *Board) ShotsFired() int {
	return b.shotsFired
}

// ShiftShots returns the shift threshold; 0 means the board never shifts.
func (b *Board) ShiftShots() int {
	return b.shiftShots
}

// RecordShot counts one landed or missed shot.
func (b *Board) RecordShot() {
	b.shotsFired++
}

// ShiftDue reports whether enough shots were fired to shift the board.
func (b *Board) ShiftDue() bool {
	return b.shiftShots > 0 && b.shotsFired >= b.shiftShots
}

// ShiftImminent reports whether the board will shift two shots from now.
func (b *Board) ShiftImminent() bool {
	return b.shiftShots > 2 && b.shotsFired == b.shiftShots-2
}

// ShiftDown moves every bubble down by one row spacing and resets the shot
// counter. Logical rows move with the pixels: each bubble's row grows by one
// and the grid's stagger parity flips, so columns and x stay put.
func (b *Board) ShiftDown() {
	shifted := make(map[Cell]*Bubble, len(b.cells))
	for c, bubble := range b.cells {
		nc := C(c.Row+1, c.Col)
		bubble.Cell = nc
		bubble.Pos = bubble.Pos.Add(platform.V(0, b.grid.YSpace))
		shifted[nc] = bubble
	}
	b.cells = shifted
	b.grid.Shifts++
	b.shotsFired = 0
}

// IsClearedOfRegularBubbles reports whether no regular-colour bubble remains.
// Anchors do not count.
func (b *Board) IsClearedOfRegularBubbles() bool {
	for _, bubble := range b.cells {
		if bubble.Color.IsRegular() {
			return false
		}
	}
	return true
}

// AnyBubbleBelowKillLine reports whether any bubble centre lies past the kill line.
func (b *Board) AnyBubbleBelowKillLine() bool {
	limit := b.grid.KillLineY()
	for _, bubble := range b.cells {
		if bubble.Pos.Y > limit {
			return true
		}
	}
	return false
}

// LowestRow returns the greatest occupied row, or AnchorRow-1 for an empty board.
func (b *Board) LowestRow() int {
	lowest := AnchorRow - 1
	for c := range b.cells {
		if c.Row > lowest {
			lowest = c.Row
		}
	}
	return lowest
}

// ColorsPresent returns the distinct regular colours on the board in palette order.
func (b *Board) ColorsPresent() []Color {
	seen := make([]bool, RegularCount)
	for _, bubble := range b.cells {
		if bubble.Color.IsRegular() {
			seen[bubble.Color] = true
		}
	}
	var out []Color
	for _, c := range RegularColors() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// CountByColor returns the number of bubbles per colour, anchors included.
func (b *Board) CountByColor() map[Color]int {
	counts := make(map[Color]int)
	for _, bubble := range b.cells {
		counts[bubble.Color]++
	}
	return counts
}

// Populate places stage bubbles. It stops at the first failing placement.
func (b *Board) Populate(placements []Placement) error {
	for _, p := range placements {
		if err := b.Place(p.Cell(), &Bubble{Color: p.Color}); err != nil {
			return err
		}
	}
	return nil
}

func compareCells(a, b Cell) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}
	return a.Col - b.Col
}
