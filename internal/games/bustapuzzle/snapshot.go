package bustapuzzle

import "math"

// Snapshot is a flattened view of the game state for determinism checks.
// Uses primitive types only for stable comparison.
type Snapshot struct {
	Mode     int // 0=Campaign, 1=Endless
	Stage    int
	Phase    int
	Score    int
	Shots    int // Shots counted toward the next shift
	Shifts   int
	AimMilli int // Launcher angle in thousandths of a degree

	// Projectile position in whole pixels, plus its colour and the on-deck colour
	ProjX, ProjY int
	ProjColor    int
	NextColor    int

	// Board bubbles, 3 ints each: Row, Col, Color, in row-major order
	BubbleData []int

	FallingCount int
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Mode: int(g.mode)}
	}
	s := g.session
	b := s.Board()

	cells := b.Cells()
	data := make([]int, 0, len(cells)*3)
	for _, c := range cells {
		bubble, _ := b.At(c)
		data = append(data, c.Row, c.Col, int(bubble.Color))
	}

	p := s.Projectile()
	return Snapshot{
		Mode:     int(g.mode),
		Stage:    s.Stage(),
		Phase:    int(s.Phase()),
		Score:    s.Score(),
		Shots:    b.ShotsFired(),
		Shifts:   b.Grid().Shifts,
		AimMilli: int(math.Round(s.Aiming() * 1000)),

		ProjX:     int(math.Round(p.Pos.X)),
		ProjY:     int(math.Round(p.Pos.Y)),
		ProjColor: int(p.Color),
		NextColor: int(s.NextColor()),

		BubbleData:   data,
		FallingCount: len(s.Falling()),
	}
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	fields := []int{
		snap.Mode, snap.Stage, snap.Phase, snap.Score, snap.Shots, snap.Shifts,
		snap.AimMilli, snap.ProjX, snap.ProjY, snap.ProjColor, snap.NextColor,
		snap.FallingCount,
	}
	var h uint64
	for _, v := range append(fields, snap.BubbleData...) {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}
	return h
}
