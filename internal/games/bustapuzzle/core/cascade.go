package core

import (
	"context"
	"math"

	"github.com/looplab/fsm"
	"github.com/zyedidia/generic/mapset"

	platform "github.com/vovakirdan/bustapuzzle/internal/core"
)

// Cascade states. A landing always walks them in order and always ends in
// StateResolved; a shot that pops nothing skips straight from pop check to
// resolved.
const (
	StateFlying      = "flying"
	StateLanded      = "landed"
	StatePopCheck    = "popCheck"
	StateDropped     = "dropped"
	StateAnchorPrune = "anchorPrune"
	StateResolved    = "resolved"
)

// PopThreshold is the smallest same-colour cluster that pops.
const PopThreshold = 3

// LandingResult is the outcome of one shot.
type LandingResult struct {
	Cell         Cell // Cell the projectile settled in
	Popped       []Cell
	Dropped      []Cell
	Pruned       []Cell
	Falling      []FallingBubble
	Points       int
	Shifted      bool
	StageCleared bool
	GameOver     bool
	Events       []Event
}

func (r *LandingResult) emit(e Event) {
	r.Events = append(r.Events, e)
}

// Resolver runs the landing cascade for one board: placement, pop detection,
// drop detection and anchor pruning, followed by the shift and terminal checks.
type Resolver struct {
	board *Board
	FSM   *fsm.FSM

	// Per-landing scratch, valid between Resolve entry and exit.
	proj   *Projectile
	hit    *Bubble
	placed *Bubble
	res    *LandingResult
	err    error
}

// NewResolver creates a resolver bound to board.
func NewResolver(board *Board) *Resolver {
	r := &Resolver{board: board}
	r.FSM = fsm.NewFSM(
		StateFlying,
		cascadeTransitions(),
		cascadeCallbacks(r),
	)
	return r
}

// State returns the current cascade state.
func (r *Resolver) State() string {
	return r.FSM.Current()
}

func cascadeTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "land", Src: []string{StateFlying}, Dst: StateLanded},
		{Name: "check", Src: []string{StateLanded}, Dst: StatePopCheck},
		{Name: "drop", Src: []string{StatePopCheck}, Dst: StateDropped},
		{Name: "prune", Src: []string{StateDropped}, Dst: StateAnchorPrune},
		{Name: "resolve", Src: []string{StatePopCheck, StateAnchorPrune}, Dst: StateResolved},
	}
}

func cascadeCallbacks(r *Resolver) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + StateLanded: func(ctx context.Context, e *fsm.Event) {
			if err := r.place(); err != nil {
				r.err = err
				return
			}
			r.next(ctx, e, "check")
		},
		"enter_" + StatePopCheck: func(ctx context.Context, e *fsm.Event) {
			popped, err := r.popCluster()
			if err != nil {
				r.err = err
				return
			}
			if !popped {
				r.next(ctx, e, "resolve")
				return
			}
			r.next(ctx, e, "drop")
		},
		"enter_" + StateDropped: func(ctx context.Context, e *fsm.Event) {
			if err := r.dropUnsupported(); err != nil {
				r.err = err
				return
			}
			r.next(ctx, e, "prune")
		},
		"enter_" + StateAnchorPrune: func(ctx context.Context, e *fsm.Event) {
			if err := r.pruneAnchors(); err != nil {
				r.err = err
				return
			}
			r.next(ctx, e, "resolve")
		},
		"enter_" + StateResolved: func(_ context.Context, _ *fsm.Event) {
			r.settle(r.res)
		},
	}
}

func (r *Resolver) next(ctx context.Context, e *fsm.Event, name string) {
	if err := e.FSM.Event(ctx, name); err != nil {
		r.err = err
	}
}

// Resolve lands proj against the board bubble it hit and runs the full
// cascade. Errors are invariant violations and leave the board as it was at
// the failing step.
func (r *Resolver) Resolve(ctx context.Context, proj *Projectile, hit *Bubble) (*LandingResult, error) {
	r.FSM.SetState(StateFlying)
	r.proj, r.hit, r.placed = proj, hit, nil
	r.res = &LandingResult{}
	r.err = nil
	defer func() {
		r.proj, r.hit, r.placed = nil, nil, nil
	}()

	if err := r.FSM.Event(ctx, "land"); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.res, nil
}

// Miss accounts for a shot that left the field without landing. It counts
// toward the shift and runs the same terminal checks as a landing.
func (r *Resolver) Miss() *LandingResult {
	res := &LandingResult{}
	res.emit(MissedEvent{})
	r.board.RecordShot()
	r.settle(res)
	return res
}

func (r *Resolver) place() error {
	target := LandingTarget(r.board.Grid(), r.proj.Pos, r.hit)
	cell, err := r.findLandingCell(target)
	if err != nil {
		return err
	}
	bubble := &Bubble{Color: r.proj.Color, Fired: true}
	if err := r.board.Place(cell, bubble); err != nil {
		return err
	}
	r.board.RecordShot()
	r.placed = bubble
	r.res.Cell = cell
	r.res.emit(LandedEvent{Cell: cell, Color: bubble.Color})
	return nil
}

func (r *Resolver) popCluster() (bool, error) {
	cluster := Analyze(r.board).SameColorConnected(r.placed.Cell)
	if cluster.Size() < PopThreshold {
		return false, nil
	}
	cells := SortedCells(cluster)
	for _, c := range cells {
		if _, err := r.board.Remove(c); err != nil {
			return false, err
		}
	}
	points := PopPoints(len(cells))
	r.res.Popped = cells
	r.res.Points += points
	r.res.emit(PoppedEvent{Count: len(cells), Cells: cells, Points: points})
	return true, nil
}

func (r *Resolver) dropUnsupported() error {
	cells := Analyze(r.board).Unsupported()
	if len(cells) == 0 {
		return nil
	}
	for _, c := range cells {
		bubble, err := r.board.Remove(c)
		if err != nil {
			return err
		}
		r.res.Falling = append(r.res.Falling, FallingBubble{
			Color: bubble.Color,
			Pos:   bubble.Pos,
			Speed: 1,
		})
	}
	points := DropPoints(len(cells))
	r.res.Dropped = cells
	r.res.Points += points
	r.res.emit(DroppedEvent{Count: len(cells), Cells: cells, Points: points})
	return nil
}

func (r *Resolver) pruneAnchors() error {
	cells := Analyze(r.board).IsolatedAnchors()
	if len(cells) == 0 {
		return nil
	}
	for _, c := range cells {
		if _, err := r.board.Remove(c); err != nil {
			return err
		}
	}
	r.res.Pruned = cells
	r.res.emit(AnchorPrunedEvent{Count: len(cells), Cells: cells})
	return nil
}

// settle runs the end-of-shot checks: shift, then cleared, then kill line.
// A cleared stage never also reports game over.
func (r *Resolver) settle(res *LandingResult) {
	switch {
	case r.board.ShiftDue():
		r.board.ShiftDown()
		res.Shifted = true
		res.emit(BoardShiftedEvent{Shifts: r.board.Grid().Shifts})
	case r.board.ShiftImminent():
		res.emit(ShiftWarningEvent{})
	}

	if r.board.IsClearedOfRegularBubbles() {
		res.StageCleared = true
		return
	}
	if r.board.AnyBubbleBelowKillLine() {
		res.GameOver = true
	}
}

// LandingTarget applies the landing rule: a projectile level with the bubble
// it hit settles beside it in the same row; otherwise it settles in the row
// above or below, half a bubble toward its own side. A target past a side wall
// is reflected inward by one diameter.
func LandingTarget(g Grid, pos platform.Vec2, hit *Bubble) Cell {
	d := pos.Sub(hit.Pos)
	target := hit.Pos

	if math.Abs(d.Y) < g.Radius {
		target.X += sign(d.X) * g.Diameter
	} else {
		if d.Y < 0 {
			target.Y -= g.YSpace
		} else {
			target.Y += g.YSpace
		}
		target.X += sign(d.X) * g.Radius
	}

	if target.X-g.Radius < 0 {
		target.X += g.Diameter
	}
	if target.X+g.Radius > g.Width() {
		target.X -= g.Diameter
	}
	return g.CellOf(target)
}

// findLandingCell returns target when it is free and placeable. Otherwise it
// searches outward from the hit bubble, ring by ring, and picks the free cell
// nearest the projectile in the first ring that has one.
func (r *Resolver) findLandingCell(target Cell) (Cell, error) {
	g := r.board.Grid()
	if r.free(target) {
		return target, nil
	}

	maxRow := max(g.Rows, r.board.LowestRow())
	visited := mapset.New[Cell]()
	visited.Put(r.hit.Cell)
	ring := []Cell{r.hit.Cell}
	for len(ring) > 0 {
		var next []Cell
		best, found := Cell{}, false
		bestDist := math.Inf(1)
		for _, c := range ring {
			for _, n := range g.NeighborCells(c) {
				if visited.Has(n) || n.Row > maxRow || !g.Placeable(n) {
					continue
				}
				visited.Put(n)
				if !r.board.Occupied(n) {
					if dist := g.Center(n).DistSq(r.proj.Pos); dist < bestDist {
						best, bestDist, found = n, dist, true
					}
					continue
				}
				next = append(next, n)
			}
		}
		if found {
			return best, nil
		}
		ring = next
	}
	return target, &PlacementConflictError{Cell: target}
}

func (r *Resolver) free(c Cell) bool {
	return r.board.Grid().Placeable(c) && !r.board.Occupied(c)
}

// sign returns 1 for positive x and -1 otherwise, so a dead-centre hit
// settles to the left.
func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	return -1
}
