package core_test

import (
	"fmt"
	"testing"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
)

func TestErrorCell(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		cell core.Cell
		ok   bool
	}{
		{"occupied", &core.OccupiedCellError{Cell: core.C(1, 2)}, core.C(1, 2), true},
		{"empty", &core.EmptyCellError{Cell: core.C(3, 0)}, core.C(3, 0), true},
		{"conflict", &core.PlacementConflictError{Cell: core.C(4, 5)}, core.C(4, 5), true},
		{"out of bounds", &core.OutOfBoundsError{Cell: core.C(1, 7)}, core.C(1, 7), true},
		{"wrapped", fmt.Errorf("stage 2: %w", &core.EmptyCellError{Cell: core.C(0, 6)}), core.C(0, 6), true},
		{"no cell", core.ErrNoMoreStages, core.Cell{}, false},
		{"nil", nil, core.Cell{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cell, ok := core.ErrorCell(tc.err)
			if ok != tc.ok || cell != tc.cell {
				t.Errorf("expected %s, %v; got %s, %v", tc.cell, tc.ok, cell, ok)
			}
		})
	}
}
