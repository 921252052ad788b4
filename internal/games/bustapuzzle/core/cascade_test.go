package core_test

import (
	"context"
	"errors"
	"testing"

	platform "github.com/vovakirdan/bustapuzzle/internal/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
)

var (
	fromRight     = platform.V(30, 2)
	fromLeft      = platform.V(-30, -2)
	fromBelowLeft = platform.V(-10, 30)
)

// land fires a projectile of color into the bubble at hitCell, arriving at
// the given offset from its centre.
func land(t *testing.T, r *core.Resolver, b *core.Board, color core.Color, hitCell core.Cell, offset platform.Vec2) (*core.LandingResult, error) {
	t.Helper()
	hit, ok := b.At(hitCell)
	if !ok {
		t.Fatalf("no bubble at %s", hitCell)
	}
	proj := &core.Projectile{
		Bubble: core.Bubble{Color: color, Pos: hit.Pos.Add(offset)},
		Flying: true,
	}
	return r.Resolve(context.Background(), proj, hit)
}

func mustLand(t *testing.T, b *core.Board, color core.Color, hitCell core.Cell, offset platform.Vec2) *core.LandingResult {
	t.Helper()
	res, err := land(t, core.NewResolver(b), b, color, hitCell, offset)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return res
}

func findEvent[T core.Event](events []core.Event) (T, bool) {
	for _, e := range events {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestLandingTarget(t *testing.T) {
	g := core.NewGrid(8, 11, 20)
	b := newBoard(t, 8, p(0, 0, core.ColorRed), p(0, 1, core.ColorRed), p(1, 1, core.ColorRed), p(0, 7, core.ColorRed))

	testCases := []struct {
		name   string
		hit    core.Cell
		offset platform.Vec2
		want   core.Cell
	}{
		{"same row right", core.C(0, 1), fromRight, core.C(0, 2)},
		{"same row left", core.C(0, 1), fromLeft, core.C(0, 0)},
		{"below left", core.C(0, 1), fromBelowLeft, core.C(1, 0)},
		{"below right", core.C(0, 1), platform.V(10, 30), core.C(1, 1)},
		{"above left", core.C(1, 1), platform.V(-10, -30), core.C(0, 1)},
		{"above right", core.C(1, 1), platform.V(10, -30), core.C(0, 2)},
		{"left wall reflects", core.C(0, 0), fromBelowLeft, core.C(1, 0)},
		{"right wall reflects", core.C(0, 7), platform.V(10, 30), core.C(1, 6)},
		{"straight below settles left", core.C(1, 1), platform.V(0, 36), core.C(2, 1)},
		{"level dead centre settles left", core.C(0, 1), platform.V(0, 0), core.C(0, 0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hit, _ := b.At(tc.hit)
			if got := core.LandingTarget(g, hit.Pos.Add(tc.offset), hit); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// Three reds in a row plus a fourth landing beside them pop together, and a
// bubble hanging only from them drops.
func TestCascadePopAndDrop(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(),
		p(0, 0, core.ColorRed), p(0, 1, core.ColorRed), p(0, 2, core.ColorRed),
		p(1, 1, core.ColorBlue),
		p(0, 5, core.ColorGreen),
	)...)
	r := core.NewResolver(b)

	res, err := land(t, r, b, core.ColorRed, core.C(0, 2), fromRight)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Cell != core.C(0, 3) {
		t.Fatalf("expected landing at (0,3), got %s", res.Cell)
	}

	popped, ok := findEvent[core.PoppedEvent](res.Events)
	if !ok || popped.Count != 4 {
		t.Fatalf("expected Popped(4), got %+v", res.Events)
	}
	dropped, ok := findEvent[core.DroppedEvent](res.Events)
	if !ok || dropped.Count != 1 || dropped.Cells[0] != core.C(1, 1) {
		t.Errorf("expected Dropped(1) at (1,1), got %+v", dropped)
	}
	if _, ok := findEvent[core.AnchorPrunedEvent](res.Events); ok {
		t.Error("anchors still hold the green bubble and must not be pruned")
	}
	if res.Points != core.PopPoints(4)+core.DropPoints(1) {
		t.Errorf("expected %d points, got %d", core.PopPoints(4)+core.DropPoints(1), res.Points)
	}
	if len(res.Falling) != 1 || res.Falling[0].Color != core.ColorBlue {
		t.Errorf("expected one falling blue bubble, got %+v", res.Falling)
	}
	if r.State() != core.StateResolved {
		t.Errorf("expected state %s, got %s", core.StateResolved, r.State())
	}

	for _, c := range []core.Cell{core.C(0, 0), core.C(0, 1), core.C(0, 2), core.C(0, 3), core.C(1, 1)} {
		if b.Occupied(c) {
			t.Errorf("%s should have been removed", c)
		}
	}
	if !b.Occupied(core.C(0, 5)) {
		t.Error("anchored green bubble should remain")
	}
	if res.StageCleared || res.GameOver {
		t.Error("no terminal state expected")
	}
}

func TestCascadeClusterOfThreePops(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(), p(0, 0, core.ColorBlue), p(0, 1, core.ColorBlue))...)

	res := mustLand(t, b, core.ColorBlue, core.C(0, 1), fromRight)

	popped, ok := findEvent[core.PoppedEvent](res.Events)
	if !ok || popped.Count != 3 {
		t.Fatalf("expected Popped(3), got %+v", res.Events)
	}
	pruned, ok := findEvent[core.AnchorPrunedEvent](res.Events)
	if !ok || pruned.Count != 7 {
		t.Errorf("expected all 7 anchors pruned, got %+v", pruned)
	}
	if !res.StageCleared {
		t.Error("expected stage cleared")
	}
	if b.Len() != 0 {
		t.Errorf("expected empty board, got %d bubbles", b.Len())
	}
}

func TestCascadeNoPopOnOtherColour(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(),
		p(0, 0, core.ColorGreen), p(0, 1, core.ColorGreen), p(0, 5, core.ColorRed),
	)...)

	res := mustLand(t, b, core.ColorBlue, core.C(0, 5), fromRight)

	if len(res.Events) != 1 {
		t.Fatalf("expected only a Landed event, got %+v", res.Events)
	}
	if _, ok := res.Events[0].(core.LandedEvent); !ok {
		t.Errorf("expected Landed, got %T", res.Events[0])
	}
	if b.Len() != 10+1 {
		t.Errorf("expected 11 bubbles, got %d", b.Len())
	}
	if res.Points != 0 {
		t.Errorf("expected no points, got %d", res.Points)
	}
}

func TestCascadePopThreshold(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(), p(0, 1, core.ColorGreen))...)
	r := core.NewResolver(b)

	res, err := land(t, r, b, core.ColorGreen, core.C(0, 1), fromRight)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findEvent[core.PoppedEvent](res.Events); ok {
		t.Fatal("a pair must never pop")
	}

	res, err = land(t, r, b, core.ColorGreen, core.C(0, 2), fromRight)
	if err != nil {
		t.Fatal(err)
	}
	popped, ok := findEvent[core.PoppedEvent](res.Events)
	if !ok || popped.Count != 3 {
		t.Fatalf("expected Popped(3), got %+v", res.Events)
	}
	for _, c := range []core.Cell{core.C(0, 1), core.C(0, 2), core.C(0, 3)} {
		if b.Occupied(c) {
			t.Errorf("cluster member %s retained", c)
		}
	}
}

func TestCascadePrunesIsolatedAnchor(t *testing.T) {
	b := newBoard(t, 8,
		p(-1, 0, core.ColorAnchor),
		p(0, 0, core.ColorRed),
		p(0, 1, core.ColorRed),
	)

	res := mustLand(t, b, core.ColorRed, core.C(0, 1), fromRight)

	pruned, ok := findEvent[core.AnchorPrunedEvent](res.Events)
	if !ok || pruned.Count != 1 || pruned.Cells[0] != core.C(-1, 0) {
		t.Fatalf("expected AnchorPruned(1) at (-1,0), got %+v", res.Events)
	}
	if _, ok := findEvent[core.DroppedEvent](res.Events); ok {
		t.Error("pruned anchors must not be reported as drops")
	}
	if b.Occupied(core.C(-1, 0)) {
		t.Error("anchor should be removed")
	}
}

func TestCascadeDropCompleteness(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(),
		p(0, 2, core.ColorYellow), p(0, 3, core.ColorYellow),
		p(1, 2, core.ColorRed), p(2, 2, core.ColorBlue), p(2, 3, core.ColorGreen), p(3, 2, core.ColorRed),
		p(0, 6, core.ColorBlue),
	)...)

	res := mustLand(t, b, core.ColorYellow, core.C(0, 3), fromRight)
	if _, ok := findEvent[core.PoppedEvent](res.Events); !ok {
		t.Fatal("expected the yellow trio to pop")
	}

	a := core.Analyze(b)
	if left := a.Unsupported(); len(left) != 0 {
		t.Errorf("unsupported bubbles remain after drop: %v", left)
	}
	dropped, _ := findEvent[core.DroppedEvent](res.Events)
	if dropped.Count != 4 {
		t.Errorf("expected 4 dropped, got %d", dropped.Count)
	}
}

func TestCascadeOccupiedTargetFallsBackToNearestFreeCell(t *testing.T) {
	b := newBoard(t, 8, append(anchorRow(),
		p(0, 0, core.ColorRed), p(0, 1, core.ColorBlue), p(0, 2, core.ColorGreen),
	)...)

	res := mustLand(t, b, core.ColorYellow, core.C(0, 1), fromRight)
	if res.Cell != core.C(1, 1) {
		t.Errorf("expected fallback to (1,1), got %s", res.Cell)
	}
}

func TestCascadePlacementConflict(t *testing.T) {
	b := core.NewBoard(core.NewGrid(2, 1, 20), 0)
	if err := b.Populate([]core.Placement{
		p(-1, 0, core.ColorAnchor),
		p(0, 0, core.ColorRed),
		p(0, 1, core.ColorBlue),
		p(1, 0, core.ColorGreen),
	}); err != nil {
		t.Fatal(err)
	}
	r := core.NewResolver(b)

	_, err := land(t, r, b, core.ColorYellow, core.C(0, 0), fromRight)
	if !errors.Is(err, core.ErrPlacementConflict) {
		t.Fatalf("expected ErrPlacementConflict, got %v", err)
	}
	var conflict *core.PlacementConflictError
	if !errors.As(err, &conflict) || conflict.Cell != core.C(0, 1) {
		t.Errorf("expected conflict at (0,1), got %v", err)
	}
	if b.Len() != 4 || b.ShotsFired() != 0 {
		t.Error("failed landing must not change the board")
	}
	if r.State() != core.StateLanded {
		t.Errorf("expected cascade to stop in %s, got %s", core.StateLanded, r.State())
	}
}

func TestCascadeShiftsAfterThreshold(t *testing.T) {
	b := newBoard(t, 1, append(anchorRow(), p(0, 0, core.ColorRed), p(0, 4, core.ColorGreen))...)
	before := make(map[*core.Bubble]float64)
	for _, bubble := range b.Bubbles() {
		before[bubble] = bubble.Pos.Y
	}

	res := mustLand(t, b, core.ColorBlue, core.C(0, 4), fromRight)

	shifted, ok := findEvent[core.BoardShiftedEvent](res.Events)
	if !ok || shifted.Shifts != 1 {
		t.Fatalf("expected BoardShifted, got %+v", res.Events)
	}
	ys := b.Grid().YSpace
	for bubble, y := range before {
		if bubble.Pos.Y != y+ys {
			t.Errorf("bubble at %s: y=%v, want %v", bubble.Cell, bubble.Pos.Y, y+ys)
		}
	}
	landed, _ := b.At(core.C(1, 5))
	if landed == nil || landed.Color != core.ColorBlue {
		t.Error("landed bubble should have shifted with the board")
	}
	if b.ShotsFired() != 0 {
		t.Errorf("expected counter reset, got %d", b.ShotsFired())
	}
}

func TestCascadeShiftWarning(t *testing.T) {
	b := newBoard(t, 4, append(anchorRow(), p(0, 0, core.ColorRed), p(0, 4, core.ColorGreen))...)
	r := core.NewResolver(b)

	res, err := land(t, r, b, core.ColorBlue, core.C(0, 0), fromRight)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findEvent[core.ShiftWarningEvent](res.Events); ok {
		t.Error("warning after one shot")
	}
	res, err = land(t, r, b, core.ColorYellow, core.C(0, 4), fromRight)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := findEvent[core.ShiftWarningEvent](res.Events); !ok {
		t.Errorf("expected ShiftWarning, got %+v", res.Events)
	}
}

func TestCascadeMissCountsTowardShift(t *testing.T) {
	b := newBoard(t, 1, append(anchorRow(), p(10, 0, core.ColorRed))...)
	res := core.NewResolver(b).Miss()

	if _, ok := findEvent[core.MissedEvent](res.Events); !ok {
		t.Error("expected Missed")
	}
	if !res.Shifted || !res.GameOver {
		t.Errorf("expected shift into game over, got %+v", res)
	}
}
