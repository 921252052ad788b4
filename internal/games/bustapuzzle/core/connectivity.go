package core

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Analysis is a snapshot of the adjacency, component and same-colour
// component relations of a board. It is computed from scratch and never
// updated incrementally; any board mutation requires a fresh Analyze.
//
// Sets returned by its accessors are shared with the analysis and must not
// be modified.
type Analysis struct {
	colors          map[Cell]Color
	adjacent        map[Cell]mapset.Set[Cell]
	component       map[Cell]int
	colorComponent  map[Cell]int
	components      []mapset.Set[Cell]
	colorComponents []mapset.Set[Cell]
}

// Analyze computes connectivity for every bubble currently on the board.
func Analyze(b *Board) *Analysis {
	cells := b.Cells()
	a := &Analysis{
		colors:         make(map[Cell]Color, len(cells)),
		adjacent:       make(map[Cell]mapset.Set[Cell], len(cells)),
		component:      make(map[Cell]int, len(cells)),
		colorComponent: make(map[Cell]int, len(cells)),
	}

	all := newUnionFind(cells)
	same := newUnionFind(cells)
	for _, c := range cells {
		bubble := b.cells[c]
		a.colors[c] = bubble.Color
		adj := mapset.New[Cell]()
		for _, nb := range b.NeighborsOf(bubble) {
			adj.Put(nb.Cell)
			all.union(c, nb.Cell)
			if nb.Color == bubble.Color {
				same.union(c, nb.Cell)
			}
		}
		a.adjacent[c] = adj
	}

	a.components = all.assign(cells, a.component)
	a.colorComponents = same.assign(cells, a.colorComponent)
	return a
}

// Len returns the number of analysed bubbles.
func (a *Analysis) Len() int {
	return len(a.colors)
}

// Adjacent returns the occupied neighbour cells of c.
func (a *Analysis) Adjacent(c Cell) mapset.Set[Cell] {
	if s, ok := a.adjacent[c]; ok {
		return s
	}
	return mapset.New[Cell]()
}

// Connected returns the connected component containing c, c included.
func (a *Analysis) Connected(c Cell) mapset.Set[Cell] {
	if id, ok := a.component[c]; ok {
		return a.components[id]
	}
	return mapset.New[Cell]()
}

// SameColorConnected returns the same-colour component containing c, c included.
func (a *Analysis) SameColorConnected(c Cell) mapset.Set[Cell] {
	if id, ok := a.colorComponent[c]; ok {
		return a.colorComponents[id]
	}
	return mapset.New[Cell]()
}

// Unsupported returns, in row-major order, every cell whose component holds
// no anchor. These bubbles must drop.
func (a *Analysis) Unsupported() []Cell {
	var out []Cell
	for _, s := range a.components {
		if !a.anyColor(s, Color.IsAnchor) {
			out = append(out, SortedCells(s)...)
		}
	}
	slices.SortFunc(out, compareCells)
	return out
}

// IsolatedAnchors returns, in row-major order, every anchor whose component
// holds no regular bubble.
func (a *Analysis) IsolatedAnchors() []Cell {
	var out []Cell
	for _, s := range a.components {
		if a.anyColor(s, Color.IsRegular) {
			continue
		}
		s.Each(func(c Cell) {
			if a.colors[c].IsAnchor() {
				out = append(out, c)
			}
		})
	}
	slices.SortFunc(out, compareCells)
	return out
}

func (a *Analysis) anyColor(s mapset.Set[Cell], pred func(Color) bool) bool {
	found := false
	s.Each(func(c Cell) {
		if pred(a.colors[c]) {
			found = true
		}
	})
	return found
}

// SortedCells returns the members of s in row-major order.
func SortedCells(s mapset.Set[Cell]) []Cell {
	out := make([]Cell, 0, s.Size())
	s.Each(func(c Cell) {
		out = append(out, c)
	})
	slices.SortFunc(out, compareCells)
	return out
}

// unionFind is a disjoint-set forest over cells with path compression and
// union by rank.
type unionFind struct {
	parent map[Cell]Cell
	rank   map[Cell]int
}

func newUnionFind(cells []Cell) *unionFind {
	uf := &unionFind{
		parent: make(map[Cell]Cell, len(cells)),
		rank:   make(map[Cell]int, len(cells)),
	}
	for _, c := range cells {
		uf.parent[c] = c
	}
	return uf
}

func (uf *unionFind) find(c Cell) Cell {
	root := c
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[c] != root {
		next := uf.parent[c]
		uf.parent[c] = root
		c = next
	}
	return root
}

func (uf *unionFind) union(a, b Cell) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}

// assign numbers the components in order of first appearance in cells,
// records each cell's id in ids and returns the member sets by id.
func (uf *unionFind) assign(cells []Cell, ids map[Cell]int) []mapset.Set[Cell] {
	byRoot := make(map[Cell]int)
	var sets []mapset.Set[Cell]
	for _, c := range cells {
		root := uf.find(c)
		id, ok := byRoot[root]
		if !ok {
			id = len(sets)
			byRoot[root] = id
			sets = append(sets, mapset.New[Cell]())
		}
		ids[c] = id
		sets[id].Put(c)
	}
	return sets
}
