package core_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
)

// pairStage puts two blues under a single anchor, right above the launcher,
// so a straight shot lands between them and pops all three.
func pairStage(id int) core.Stage {
	return core.Stage{ID: id, Placements: []core.Placement{
		p(-1, 3, core.ColorAnchor),
		p(0, 3, core.ColorBlue),
		p(0, 4, core.ColorBlue),
	}}
}

// cornerStage keeps every bubble far from the launcher's vertical line.
func cornerStage(id int) core.Stage {
	return core.Stage{ID: id, Placements: []core.Placement{
		p(-1, 0, core.ColorAnchor),
		p(0, 0, core.ColorRed),
	}}
}

// columnStage hangs a chain down column 0 to the last row above the kill line.
func columnStage(id int) core.Stage {
	st := core.Stage{ID: id, Placements: []core.Placement{p(-1, 0, core.ColorAnchor)}}
	for row := 0; row < 11; row++ {
		color := core.ColorRed
		if row%2 == 1 {
			color = core.ColorGreen
		}
		st.Placements = append(st.Placements, p(row, 0, color))
	}
	return st
}

func newSession(t *testing.T, cfg core.Config, stages ...core.Stage) *core.Session {
	t.Helper()
	s, err := core.NewSession(cfg, core.Campaign(stages), 1)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

func tick(t *testing.T, s *core.Session, frames int) []core.Event {
	t.Helper()
	events, err := s.Tick(frames)
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	return events
}

func TestSessionClearAndAdvance(t *testing.T) {
	cfg := core.DefaultConfig()
	s := newSession(t, cfg, pairStage(1), pairStage(2))

	if s.Projectile().Color != core.ColorBlue {
		t.Fatalf("projectile should be loaded with the only board colour, got %s", s.Projectile().Color)
	}
	if !s.FireShot(0) {
		t.Fatal("FireShot rejected while aiming")
	}
	if s.FireShot(10) {
		t.Error("FireShot accepted while a shot is in flight")
	}

	events := tick(t, s, 120)

	landed, ok := findEvent[core.LandedEvent](events)
	if !ok || landed.Cell != core.C(1, 3) {
		t.Fatalf("expected landing at (1,3), got %+v", events)
	}
	popped, ok := findEvent[core.PoppedEvent](events)
	if !ok || popped.Count != 3 {
		t.Errorf("expected Popped(3), got %+v", events)
	}
	cleared, ok := findEvent[core.StageClearedEvent](events)
	if !ok {
		t.Fatalf("expected StageCleared, got %+v", events)
	}
	if cleared.Stage != 1 || cleared.Final {
		t.Errorf("unexpected clear event %+v", cleared)
	}
	if want := cfg.Scoring.TimeBonus(s.Elapsed()); cleared.TimeBonus != want || want == 0 {
		t.Errorf("expected time bonus %d, got %d", want, cleared.TimeBonus)
	}
	if s.Score() != 3+cleared.TimeBonus {
		t.Errorf("expected score %d, got %d", 3+cleared.TimeBonus, s.Score())
	}
	if s.Phase() != core.PhaseStageCleared {
		t.Fatalf("expected stage cleared phase, got %s", s.Phase())
	}
	if s.FireShot(0) {
		t.Error("FireShot accepted after the stage ended")
	}

	score := s.Score()
	if err := s.AdvanceStage(); err != nil {
		t.Fatalf("AdvanceStage failed: %v", err)
	}
	if s.Stage() != 2 || s.Phase() != core.PhaseAiming || s.Score() != score {
		t.Errorf("unexpected state after advance: stage=%d phase=%s score=%d", s.Stage(), s.Phase(), s.Score())
	}
	if s.Elapsed() != 0 {
		t.Error("stage clock should restart")
	}

	s.FireShot(0)
	events = tick(t, s, 120)
	cleared, ok = findEvent[core.StageClearedEvent](events)
	if !ok || !cleared.Final {
		t.Fatalf("expected final StageCleared, got %+v", events)
	}
	if s.Phase() != core.PhaseComplete {
		t.Errorf("expected complete phase, got %s", s.Phase())
	}
	if err := s.AdvanceStage(); !errors.Is(err, core.ErrNoMoreStages) {
		t.Errorf("expected ErrNoMoreStages, got %v", err)
	}
}

// mixedStage adds a green hanging in the corner to pairStage, so popping the
// blues can leave the preview colour with nothing left to match.
func mixedStage(id int) core.Stage {
	st := pairStage(id)
	st.Placements = append(st.Placements, p(-1, 0, core.ColorAnchor), p(0, 0, core.ColorGreen))
	return st
}

func TestSessionPromotesPreviewColour(t *testing.T) {
	for seed := uint64(1); seed <= 16; seed++ {
		cfg := core.DefaultConfig()
		cfg.Seed = seed
		s := newSession(t, cfg, mixedStage(1))

		next := s.NextColor()
		s.FireShot(0)
		for i := 0; i < 200; i++ {
			if _, ok := findEvent[core.LandedEvent](tick(t, s, 1)); ok {
				break
			}
		}
		if s.Phase() == core.PhaseAiming && s.Projectile().Color != next {
			t.Errorf("seed %d: expected preview %s loaded, got %s", seed, next, s.Projectile().Color)
		}
	}
}

func TestSessionAdvanceBeforeClear(t *testing.T) {
	s := newSession(t, core.DefaultConfig(), pairStage(1), pairStage(2))
	if err := s.AdvanceStage(); !errors.Is(err, core.ErrStageInProgress) {
		t.Errorf("expected ErrStageInProgress, got %v", err)
	}
}

func TestSessionAdvanceIsAtomic(t *testing.T) {
	broken := core.Stage{ID: 2, Placements: []core.Placement{p(0, 0, core.ColorRed)}}
	s := newSession(t, core.DefaultConfig(), pairStage(1), broken)
	s.FireShot(0)
	tick(t, s, 120)

	board := s.Board()
	err := s.AdvanceStage()
	var verr core.ValidationError
	if !errors.As(err, &verr) || verr.Code != "NO_ANCHOR" {
		t.Fatalf("expected NO_ANCHOR validation error, got %v", err)
	}
	if s.Stage() != 1 || s.Board() != board || s.Phase() != core.PhaseStageCleared {
		t.Error("failed advance must leave the session untouched")
	}
}

func TestSessionMissedShot(t *testing.T) {
	s := newSession(t, core.DefaultConfig(), cornerStage(1))
	s.FireShot(0)

	events := tick(t, s, 200)
	if _, ok := findEvent[core.MissedEvent](events); !ok {
		t.Fatalf("expected Missed, got %+v", events)
	}
	if _, ok := findEvent[core.LandedEvent](events); ok {
		t.Error("a missed shot must not land")
	}
	if s.Board().ShotsFired() != 1 {
		t.Errorf("missed shot should count, got %d", s.Board().ShotsFired())
	}
	if s.Phase() != core.PhaseAiming {
		t.Errorf("expected aiming after miss, got %s", s.Phase())
	}
	if s.Projectile().Pos != s.LaunchPoint() {
		t.Error("projectile should be recycled to the launch point")
	}
}

func TestSessionGameOverOnShift(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.ShiftShots = 1
	s := newSession(t, cfg, columnStage(1))
	s.FireShot(0)

	events := tick(t, s, 200)
	if _, ok := findEvent[core.BoardShiftedEvent](events); !ok {
		t.Errorf("expected BoardShifted, got %+v", events)
	}
	if _, ok := findEvent[core.GameOverEvent](events); !ok {
		t.Fatalf("expected GameOver, got %+v", events)
	}
	if s.Phase() != core.PhaseGameOver {
		t.Errorf("expected game over phase, got %s", s.Phase())
	}
	if s.FireShot(0) {
		t.Error("FireShot accepted after game over")
	}
}

func TestSessionCountdownAutoFires(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.TickRate = 10
	cfg.ShotTimeout = 2 * time.Second
	s := newSession(t, cfg, cornerStage(1))

	if s.ShotSecondsLeft() != 2 {
		t.Errorf("expected 2 seconds left, got %d", s.ShotSecondsLeft())
	}
	events := tick(t, s, 20)

	var ticks []int
	for _, e := range events {
		if c, ok := e.(core.CountdownTickEvent); ok {
			ticks = append(ticks, c.SecondsLeft)
		}
	}
	if len(ticks) != 2 || ticks[0] != 2 || ticks[1] != 1 {
		t.Errorf("expected countdown [2 1], got %v", ticks)
	}
	if s.Phase() != core.PhaseFlying {
		t.Errorf("expected auto-fire, got phase %s", s.Phase())
	}
}

func TestSessionAimClamp(t *testing.T) {
	s := newSession(t, core.DefaultConfig(), cornerStage(1))
	s.Aim(200)
	if s.Aiming() != 85 {
		t.Errorf("expected aim clamped to 85, got %v", s.Aiming())
	}
	s.CenterAim()
	if s.Aiming() != 82 {
		t.Errorf("expected one step toward centre, got %v", s.Aiming())
	}
	s.Aim(-400)
	if s.Aiming() != -85 {
		t.Errorf("expected aim clamped to -85, got %v", s.Aiming())
	}

	s.FireShot(120)
	vel := s.Projectile().Vel
	if vel.X >= 0 || vel.Y >= 0 {
		t.Errorf("positive angle should fire up and to the left, got %v", vel)
	}
}

func TestSessionRestartReturnsFreshSession(t *testing.T) {
	s := newSession(t, core.DefaultConfig(), pairStage(1), pairStage(2))
	s.FireShot(0)
	tick(t, s, 120)

	fresh, err := s.Restart()
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if fresh == s {
		t.Fatal("Restart must return a new session")
	}
	if fresh.Score() != 0 || fresh.Stage() != 1 || fresh.Phase() != core.PhaseAiming {
		t.Errorf("fresh session not reset: score=%d stage=%d phase=%s", fresh.Score(), fresh.Stage(), fresh.Phase())
	}
	if s.Score() == 0 || s.Phase() != core.PhaseStageCleared {
		t.Error("Restart must not mutate the old session")
	}
}

func TestSessionDeterministicColours(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Seed = 99
	st := core.Stage{ID: 1, Placements: append(anchorRow(),
		p(0, 0, core.ColorRed), p(0, 1, core.ColorGreen), p(0, 2, core.ColorBlue), p(0, 3, core.ColorYellow),
	)}

	a := newSession(t, cfg, st)
	b := newSession(t, cfg, st)
	if a.Projectile().Color != b.Projectile().Color || a.NextColor() != b.NextColor() {
		t.Error("same seed should produce the same colours")
	}
	present := map[core.Color]bool{core.ColorRed: true, core.ColorGreen: true, core.ColorBlue: true, core.ColorYellow: true}
	if !present[a.Projectile().Color] || !present[a.NextColor()] {
		t.Error("shot colours must come from the board")
	}
}

func TestFallingBubbleAccelerates(t *testing.T) {
	f := core.FallingBubble{Speed: 1}
	f.Step()
	f.Step()
	f.Step()
	if f.Pos.Y != 1+2+3 || f.Speed != 4 {
		t.Errorf("expected y=6 speed=4, got y=%v speed=%v", f.Pos.Y, f.Speed)
	}
}

func TestSessionShiftSchedule(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.ShiftSchedule = func(stage int) int { return 10 - stage }
	cfg.TimeoutSchedule = func(stage int) time.Duration { return time.Duration(8-stage) * time.Second }
	s := newSession(t, cfg, pairStage(1), pairStage(2))
	if s.Board().ShiftShots() != 9 {
		t.Errorf("expected 9 shots per shift on stage 1, got %d", s.Board().ShiftShots())
	}
	if s.ShotSecondsLeft() != 7 {
		t.Errorf("expected a 7 second timer on stage 1, got %d", s.ShotSecondsLeft())
	}

	s.FireShot(0)
	tick(t, s, 120)
	stats := s.Stats()
	if stats.Shots != 1 || stats.Popped != 3 || stats.Dropped != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}

	if err := s.AdvanceStage(); err != nil {
		t.Fatalf("AdvanceStage failed: %v", err)
	}
	if s.Board().ShiftShots() != 8 || s.ShotSecondsLeft() != 6 {
		t.Errorf("expected stage 2 rules 8/6s, got %d/%ds", s.Board().ShiftShots(), s.ShotSecondsLeft())
	}
	if s.Stats().Popped != 0 {
		t.Error("stats should reset with the stage")
	}
}

func TestRenderSession(t *testing.T) {
	s := newSession(t, core.DefaultConfig(), pairStage(1))
	s.Aim(-6)
	lines := strings.Split(strings.TrimRight(core.RenderSession(s), "\n"), "\n")

	if lines[0] != "Stage: 1 | Score: 0 | Shots: 0/8 | Phase: aiming" {
		t.Errorf("header: %q", lines[0])
	}
	if lines[1] != " . . . @ . . ." || lines[2] != ". . . B B . . ." {
		t.Errorf("board rows: %q, %q", lines[1], lines[2])
	}
	if last := lines[len(lines)-1]; last != "Aim: -6 | Shot: B | Next: B" {
		t.Errorf("shooter line: %q", last)
	}
}
