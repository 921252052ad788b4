package core

// Endless generates an unbounded sequence of stages. Stage n is a pure
// function of the seed and n, so a run can be replayed.
type Endless struct {
	Columns  int
	Rows     int
	FillRows int // Filled rows on stage 1
	Colors   int // Palette size on stage 1
	Seed     uint64
}

// DefaultEndless returns an endless source sized for the given grid.
func DefaultEndless(columns, rows int, seed uint64) Endless {
	return Endless{
		Columns:  columns,
		Rows:     rows,
		FillRows: 3,
		Colors:   3,
		Seed:     seed,
	}
}

// Len returns 0: the source never runs out.
func (e Endless) Len() int {
	return 0
}

// Stage generates stage n. Each stage adds a filled row every two stages and
// a colour every three, up to the grid and palette limits.
func (e Endless) Stage(n int) (Stage, bool) {
	if n < 1 || e.Columns < 2 || e.Rows < 1 {
		return Stage{}, false
	}
	rng := NewRNG(e.Seed ^ uint64(n)*0x9E3779B97F4A7C15)
	g := NewGrid(e.Columns, e.Rows, 1)

	fill := min(e.FillRows+(n-1)/2, max(e.Rows-4, 1))
	colors := min(max(e.Colors+(n-1)/3, 2), RegularCount)
	palette := RegularColors()[:colors]

	st := Stage{ID: n, Name: "Endless"}
	for col := 0; col <= g.MaxCol(AnchorRow); col++ {
		st.Placements = append(st.Placements, Placement{Row: AnchorRow, Col: col, Color: ColorAnchor})
	}
	for row := 0; row < fill; row++ {
		prev := palette[rng.Intn(len(palette))]
		for col := 0; col <= g.MaxCol(row); col++ {
			// Bias toward repeating the left neighbour so clusters form.
			color := prev
			if rng.Float() >= 0.45 {
				color = palette[rng.Intn(len(palette))]
			}
			st.Placements = append(st.Placements, Placement{Row: row, Col: col, Color: color})
			prev = color
		}
	}
	return st, true
}
