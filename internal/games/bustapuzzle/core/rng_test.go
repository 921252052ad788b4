package core_test

import (
	"testing"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
)

func TestRNGDeterministic(t *testing.T) {
	a, b := core.NewRNG(42), core.NewRNG(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}

	zero := core.NewRNG(0)
	if zero.Next() == 0 {
		t.Error("a zero seed must not lock the generator at zero")
	}

	r := core.NewRNG(7)
	for i := 0; i < 1000; i++ {
		if f := r.Float(); f < 0 || f >= 1 {
			t.Fatalf("Float() = %v, outside [0, 1)", f)
		}
		if n := r.Intn(5); n < 0 || n >= 5 {
			t.Fatalf("Intn(5) = %d", n)
		}
	}
	if r.Intn(0) != 0 {
		t.Error("Intn(0) should be 0")
	}
}

func TestRNGPickColor(t *testing.T) {
	g := core.NewGrid(8, 11, 20)
	b := core.NewBoard(g, 0)
	r := core.NewRNG(3)

	if got := r.PickColor(b, core.ColorYellow); got != core.ColorYellow {
		t.Errorf("empty board should yield the fallback, got %s", got)
	}

	err := b.Populate([]core.Placement{
		{Row: -1, Col: 0, Color: core.ColorAnchor},
		{Row: 0, Col: 0, Color: core.ColorRed},
		{Row: 0, Col: 1, Color: core.ColorBlue},
	})
	if err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	seen := map[core.Color]bool{}
	for i := 0; i < 200; i++ {
		c := r.PickColor(b, core.ColorYellow)
		if c != core.ColorRed && c != core.ColorBlue {
			t.Fatalf("picked %s, which is not on the board", c)
		}
		seen[c] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both colours to be picked, got %v", seen)
	}
}
