package core

import platform "github.com/vovakirdan/bustapuzzle/internal/core"

// Bubble is a single bubble entity, either committed to the board or free.
type Bubble struct {
	Color Color
	Pos   platform.Vec2 // Pixel centre
	Cell  Cell          // Valid only while OnBoard
	// OnBoard is true once the bubble has been committed to a board cell.
	OnBoard bool
	// Fired marks bubbles that arrived via a player shot. Presentation only.
	Fired bool
}

// Placement is one (row, column, color) triple of stage data.
type Placement struct {
	Row   int
	Col   int
	Color Color
}

// Cell returns the placement's grid cell.
func (p Placement) Cell() Cell {
	return C(p.Row, p.Col)
}

// Projectile is the player's in-flight bubble. It is recycled after landing
// rather than destroyed.
type Projectile struct {
	Bubble
	Vel    platform.Vec2
	Flying bool
}

// FallingBubble is a bubble that lost its anchor support. It falls with
// increasing speed and takes no further part in connectivity.
type FallingBubble struct {
	Color Color
	Pos   platform.Vec2
	Speed float64
}

// Step advances the fall by one frame: the bubble moves by its current speed
// and then accelerates by one unit.
func (f *FallingBubble) Step() {
	f.Pos.Y += f.Speed
	f.Speed++
}
