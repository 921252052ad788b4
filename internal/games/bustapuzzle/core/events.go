package core

// Event is an outcome reported to the presentation layer after a shot or tick.
type Event interface {
	event()
}

// LandedEvent is emitted when the projectile is committed to a board cell.
type LandedEvent struct {
	Cell  Cell
	Color Color
}

func (LandedEvent) event() {}

// PoppedEvent is emitted when a same-colour cluster of three or more is removed.
type PoppedEvent struct {
	Count  int
	Cells  []Cell
	Points int
}

func (PoppedEvent) event() {}

// DroppedEvent is emitted when bubbles that lost anchor support fall.
type DroppedEvent struct {
	Count  int
	Cells  []Cell
	Points int
}

func (DroppedEvent) event() {}

// AnchorPrunedEvent is emitted when anchors connected to no regular bubble are removed.
type AnchorPrunedEvent struct {
	Count int
	Cells []Cell
}

func (AnchorPrunedEvent) event() {}

// BoardShiftedEvent is emitted after every bubble moved down one row.
type BoardShiftedEvent struct {
	Shifts int // Total shifts this stage
}

func (BoardShiftedEvent) event() {}

// ShiftWarningEvent is a presentation hint: the board shifts in two shots.
type ShiftWarningEvent struct{}

func (ShiftWarningEvent) event() {}

// StageClearedEvent is emitted when no regular bubble remains.
type StageClearedEvent struct {
	Stage     int
	TimeBonus int
	Final     bool // No further stage exists
}

func (StageClearedEvent) event() {}

// GameOverEvent is emitted when a bubble crosses the kill line.
type GameOverEvent struct {
	Score int
}

func (GameOverEvent) event() {}

// MissedEvent is emitted when the projectile leaves the field without landing.
type MissedEvent struct{}

func (MissedEvent) event() {}

// CountdownTickEvent is emitted once per second while the shot timer is about
// to auto-fire.
type CountdownTickEvent struct {
	SecondsLeft int
}

func (CountdownTickEvent) event() {}
