package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for board invariant violations. They indicate a geometry or
// sequencing bug, never a user mistake, and are matched with errors.Is.
var (
	ErrOccupiedCell      = errors.New("cell already occupied")
	ErrEmptyCell         = errors.New("cell is empty")
	ErrPlacementConflict = errors.New("no empty cell for landing bubble")
	ErrOutOfBounds       = errors.New("cell out of bounds")
	ErrNoMoreStages      = errors.New("no more stages")
)

// OccupiedCellError is returned when placing into a cell that already holds a bubble.
type OccupiedCellError struct {
	Cell Cell
}

func (e *OccupiedCellError) Error() string {
	return fmt.Sprintf("place %s: %v", e.Cell, ErrOccupiedCell)
}

func (e *OccupiedCellError) Unwrap() error { return ErrOccupiedCell }

// EmptyCellError is returned when removing from a cell that holds nothing.
type EmptyCellError struct {
	Cell Cell
}

func (e *EmptyCellError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Cell, ErrEmptyCell)
}

func (e *EmptyCellError) Unwrap() error { return ErrEmptyCell }

// PlacementConflictError is returned when a landing bubble has nowhere to go.
type PlacementConflictError struct {
	Cell Cell // Target computed from the landing rule
}

func (e *PlacementConflictError) Error() string {
	return fmt.Sprintf("land at %s: %v", e.Cell, ErrPlacementConflict)
}

func (e *PlacementConflictError) Unwrap() error { return ErrPlacementConflict }

// OutOfBoundsError is returned when a cell lies outside the placeable area.
type OutOfBoundsError struct {
	Cell Cell
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cell %s: %v", e.Cell, ErrOutOfBounds)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// ErrorCell returns the cell named by a board invariant error anywhere in
// err's chain.
func ErrorCell(err error) (Cell, bool) {
	var (
		occupied *OccupiedCellError
		empty    *EmptyCellError
		conflict *PlacementConflictError
		bounds   *OutOfBoundsError
	)
	switch {
	case errors.As(err, &occupied):
		return occupied.Cell, true
	case errors.As(err, &empty):
		return empty.Cell, true
	case errors.As(err, &conflict):
		return conflict.Cell, true
	case errors.As(err, &bounds):
		return bounds.Cell, true
	}
	return Cell{}, false
}
