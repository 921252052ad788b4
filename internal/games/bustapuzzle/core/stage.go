package core

import "fmt"

// Stage is an ordered list of pre-placed bubbles.
type Stage struct {
	ID         int
	Name       string
	Placements []Placement
}

// StageSource supplies stages by 1-based number.
type StageSource interface {
	// Stage returns stage n, or false when no such stage exists.
	Stage(n int) (Stage, bool)
	// Len returns the number of stages, or 0 for an unbounded source.
	Len() int
}

// Campaign is a fixed, ordered list of stages.
type Campaign []Stage

// Stage returns the n-th stage of the campaign.
func (c Campaign) Stage(n int) (Stage, bool) {
	if n < 1 || n > len(c) {
		return Stage{}, false
	}
	return c[n-1], true
}

// Len returns the number of stages.
func (c Campaign) Len() int {
	return len(c)
}

// ValidateStage checks stage data against the grid.
// Checks:
//   - The stage has at least one regular bubble
//   - Every cell exists on the grid and appears once
//   - Colours are regular or anchor
//   - Every regular bubble is connected to an anchor
func ValidateStage(g Grid, st Stage) error {
	if err := validatePlacements(g, st); err != nil {
		return err
	}
	return validateSupport(g, st)
}

func validatePlacements(g Grid, st Stage) error {
	seen := make(map[Cell]bool, len(st.Placements))
	regular := 0
	anchors := 0
	for _, p := range st.Placements {
		c := p.Cell()
		if !g.Contains(c) {
			return ValidationError{
				Code:    "OUT_OF_BOUNDS",
				Message: fmt.Sprintf("stage %d: cell %s outside %dx%d grid", st.ID, c, g.Columns, g.Rows),
			}
		}
		if seen[c] {
			return ValidationError{
				Code:    "DUPLICATE_CELL",
				Message: fmt.Sprintf("stage %d: cell %s listed twice", st.ID, c),
			}
		}
		seen[c] = true
		switch {
		case p.Color.IsRegular():
			regular++
		case p.Color.IsAnchor():
			anchors++
		default:
			return ValidationError{
				Code:    "UNKNOWN_COLOR",
				Message: fmt.Sprintf("stage %d: cell %s has colour %s", st.ID, c, p.Color),
			}
		}
	}
	if regular == 0 {
		return ValidationError{
			Code:    "EMPTY_STAGE",
			Message: fmt.Sprintf("stage %d: no regular bubbles", st.ID),
		}
	}
	if anchors == 0 {
		return ValidationError{
			Code:    "NO_ANCHOR",
			Message: fmt.Sprintf("stage %d: no anchor bubbles", st.ID),
		}
	}
	return nil
}

// validateSupport rejects stages whose bubbles would drop on the first pop.
func validateSupport(g Grid, st Stage) error {
	b := NewBoard(g, 0)
	if err := b.Populate(st.Placements); err != nil {
		return err
	}
	floating := Analyze(b).Unsupported()
	if len(floating) > 0 {
		return ValidationError{
			Code:    "FLOATING_BUBBLE",
			Message: fmt.Sprintf("stage %d: %d bubbles not connected to an anchor, first at %s", st.ID, len(floating), floating[0]),
		}
	}
	return nil
}

// ValidationError contains details about stage validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
