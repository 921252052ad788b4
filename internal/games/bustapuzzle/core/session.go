package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	platform "github.com/vovakirdan/bustapuzzle/internal/core"
)

// ErrStageInProgress is returned when advancing before the stage is cleared.
var ErrStageInProgress = errors.New("stage not cleared")

// Phase is the coarse state of a session.
type Phase int

const (
	PhaseAiming       Phase = iota // Projectile loaded, waiting for a shot
	PhaseFlying                    // Projectile in flight
	PhaseStageCleared              // Waiting for AdvanceStage
	PhaseComplete                  // Final stage cleared
	PhaseGameOver                  // Kill line breached
)

func (p Phase) String() string {
	switch p {
	case PhaseAiming:
		return "aiming"
	case PhaseFlying:
		return "flying"
	case PhaseStageCleared:
		return "stage cleared"
	case PhaseComplete:
		return "complete"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase stops shot acceptance.
func (p Phase) Terminal() bool {
	return p >= PhaseStageCleared
}

// Config holds the simulation parameters of a session.
type Config struct {
	Columns        int
	Rows           int
	Radius         float64
	ShiftShots     int     // 0 disables board shifts
	ShotSpeed      float64 // Pixels per frame
	CollisionRatio float64 // Fraction of combined radii that counts as contact
	MaxAngle       float64 // Degrees either side of vertical
	AimStep        float64 // Degrees per aim input
	TickRate       int     // Frames per second, converts frames to wall time
	ShotTimeout    time.Duration
	CountdownFrom  time.Duration // Countdown events start at this many seconds left
	Scoring        Scoring
	Seed           uint64

	// ShiftSchedule, when set, overrides ShiftShots per 1-based stage number.
	ShiftSchedule func(stage int) int

	// TimeoutSchedule, when set, overrides ShotTimeout per 1-based stage number.
	TimeoutSchedule func(stage int) time.Duration
}

// DefaultConfig returns the standard session parameters.
func DefaultConfig() Config {
	return Config{
		Columns:        8,
		Rows:           11,
		Radius:         20,
		ShiftShots:     8,
		ShotSpeed:      8,
		CollisionRatio: 0.9,
		MaxAngle:       85,
		AimStep:        3,
		TickRate:       60,
		ShotTimeout:    10 * time.Second,
		CountdownFrom:  5 * time.Second,
		Scoring:        DefaultScoring(),
	}
}

func (c Config) shiftShotsFor(stage int) int {
	if c.ShiftSchedule != nil {
		return max(0, c.ShiftSchedule(stage))
	}
	return c.ShiftShots
}

func (c Config) shotTimeoutFor(stage int) time.Duration {
	if c.TimeoutSchedule != nil {
		return max(0, c.TimeoutSchedule(stage))
	}
	return c.ShotTimeout
}

// StageStats summarises play in the current stage.
type StageStats struct {
	Shots   int
	Popped  int
	Dropped int
	Elapsed time.Duration
}

// Grid returns an unshifted grid for the configured dimensions.
func (c Config) Grid() Grid {
	return NewGrid(c.Columns, c.Rows, c.Radius)
}

// Session holds one board and its cascade resolver, and exposes shot and
// tick operations to the game loop. A session is single-threaded.
type Session struct {
	cfg        Config
	stages     StageSource
	firstStage int

	stage    int
	board    *Board
	resolver *Resolver
	rng      *SimpleRNG

	phase    Phase
	timeout  time.Duration // Shot timer for the current stage
	aim      float64       // Degrees, 0 is straight up, positive is left
	proj     Projectile
	next     Color
	falling  []FallingBubble
	score    int
	frames   int // Frames elapsed in the current stage
	idle     int // Frames since the projectile was loaded
	lastTick int // Last countdown second reported
	shots    int
	popped   int
	dropped  int
}

// NewSession creates a session that starts at the given 1-based stage.
func NewSession(cfg Config, stages StageSource, stage int) (*Session, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("invalid tick rate %d", cfg.TickRate)
	}
	s := &Session{
		cfg:        cfg,
		stages:     stages,
		firstStage: stage,
		rng:        NewRNG(cfg.Seed),
	}
	board, err := s.buildBoard(stage)
	if err != nil {
		return nil, err
	}
	s.enterStage(stage, board)
	return s, nil
}

// Restart returns a fresh session with the original configuration and start
// stage. The receiver is left untouched.
func (s *Session) Restart() (*Session, error) {
	return NewSession(s.cfg, s.stages, s.firstStage)
}

// AdvanceStage replaces the board with the next stage. It either fully
// succeeds or leaves the session as it was.
func (s *Session) AdvanceStage() error {
	switch s.phase {
	case PhaseStageCleared:
	case PhaseComplete:
		return ErrNoMoreStages
	default:
		return ErrStageInProgress
	}
	board, err := s.buildBoard(s.stage + 1)
	if err != nil {
		return err
	}
	s.enterStage(s.stage+1, board)
	return nil
}

func (s *Session) buildBoard(n int) (*Board, error) {
	st, ok := s.stages.Stage(n)
	if !ok {
		return nil, fmt.Errorf("stage %d: %w", n, ErrNoMoreStages)
	}
	g := s.cfg.Grid()
	if err := ValidateStage(g, st); err != nil {
		return nil, fmt.Errorf("stage %d: %w", n, err)
	}
	board := NewBoard(g, s.cfg.shiftShotsFor(n))
	if err := board.Populate(st.Placements); err != nil {
		return nil, fmt.Errorf("stage %d: %w", n, err)
	}
	return board, nil
}

func (s *Session) enterStage(n int, board *Board) {
	s.stage = n
	s.board = board
	s.resolver = NewResolver(board)
	s.phase = PhaseAiming
	s.timeout = s.cfg.shotTimeoutFor(n)
	s.aim = 0
	s.falling = nil
	s.frames = 0
	s.shots = 0
	s.popped = 0
	s.dropped = 0
	s.next = s.rng.PickColor(board, ColorRed)
	s.reload()
	s.next = s.rng.PickColor(board, s.next)
}

// reload puts the on-deck colour into the projectile at the launch point,
// even when that colour has since left the board.
func (s *Session) reload() {
	s.proj = Projectile{Bubble: Bubble{Color: s.next, Pos: s.LaunchPoint()}}
	s.idle = 0
	s.lastTick = 0
}

// LaunchPoint returns where the projectile rests before a shot.
func (s *Session) LaunchPoint() platform.Vec2 {
	g := s.board.Grid()
	return platform.V(g.Width()/2, g.KillLineY()+g.Diameter)
}

// FloorY returns the y past which projectiles and falling bubbles leave the field.
func (s *Session) FloorY() float64 {
	g := s.board.Grid()
	return g.KillLineY() + 2*g.Diameter
}

// Aim rotates the launcher by delta degrees, clamped to the allowed range.
func (s *Session) Aim(delta float64) {
	s.aim = platform.ClampF(s.aim+delta, -s.cfg.MaxAngle, s.cfg.MaxAngle)
}

// CenterAim rotates the launcher one aim step toward vertical.
func (s *Session) CenterAim() {
	switch {
	case s.aim > 0:
		s.aim = math.Max(0, s.aim-s.cfg.AimStep)
	case s.aim < 0:
		s.aim = math.Min(0, s.aim+s.cfg.AimStep)
	}
}

// FireShot launches the projectile at angleDegrees from vertical, positive
// to the left. It is a no-op returning false while a shot is in flight or
// the stage has ended.
func (s *Session) FireShot(angleDegrees float64) bool {
	if s.phase != PhaseAiming {
		return false
	}
	s.aim = platform.ClampF(angleDegrees, -s.cfg.MaxAngle, s.cfg.MaxAngle)
	rad := s.aim * math.Pi / 180
	s.proj.Vel = platform.V(-math.Sin(rad)*s.cfg.ShotSpeed, -math.Cos(rad)*s.cfg.ShotSpeed)
	s.proj.Flying = true
	s.proj.Fired = true
	s.phase = PhaseFlying
	return true
}

// Tick advances the simulation by deltaFrames frames and returns the events
// produced. An error is an invariant violation and leaves the session unusable.
func (s *Session) Tick(deltaFrames int) ([]Event, error) {
	var events []Event
	for i := 0; i < deltaFrames; i++ {
		evs, err := s.step()
		events = append(events, evs...)
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

func (s *Session) step() ([]Event, error) {
	s.stepFalling()

	switch s.phase {
	case PhaseAiming:
		s.frames++
		return s.stepCountdown(), nil
	case PhaseFlying:
		s.frames++
		return s.stepProjectile()
	default:
		return nil, nil
	}
}

func (s *Session) stepFalling() {
	if len(s.falling) == 0 {
		return
	}
	floor := s.FloorY() + s.cfg.Radius
	kept := s.falling[:0]
	for _, f := range s.falling {
		f.Step()
		if f.Pos.Y <= floor {
			kept = append(kept, f)
		}
	}
	s.falling = kept
}

func (s *Session) stepCountdown() []Event {
	timeout := s.framesFor(s.timeout)
	if timeout <= 0 {
		return nil
	}
	s.idle++
	if s.idle >= timeout {
		s.FireShot(s.aim)
		return nil
	}
	left := s.ShotSecondsLeft()
	if left != s.lastTick && time.Duration(left)*time.Second <= s.cfg.CountdownFrom {
		s.lastTick = left
		return []Event{CountdownTickEvent{SecondsLeft: left}}
	}
	return nil
}

func (s *Session) stepProjectile() ([]Event, error) {
	g := s.board.Grid()
	p := &s.proj
	p.Pos = p.Pos.Add(p.Vel)

	// Ricochet only while moving into a wall, so a bubble never sticks.
	if (p.Pos.X-g.Radius < 0 && p.Vel.X < 0) || (p.Pos.X+g.Radius > g.Width() && p.Vel.X > 0) {
		p.Vel.X = -p.Vel.X
	}
	if p.Pos.Y-g.Radius < 0 && p.Vel.Y < 0 {
		p.Vel.Y = -p.Vel.Y
	}

	if hit := s.collide(); hit != nil {
		res, err := s.resolver.Resolve(context.Background(), p, hit)
		if err != nil {
			return nil, err
		}
		return s.finishShot(res), nil
	}

	if p.Pos.Y-g.Radius > s.FloorY() {
		return s.finishShot(s.resolver.Miss()), nil
	}
	return nil, nil
}

// collide returns the nearest board bubble the projectile overlaps.
func (s *Session) collide() *Bubble {
	g := s.board.Grid()
	var hit *Bubble
	best := math.Inf(1)
	for _, b := range s.board.Bubbles() {
		if !platform.CirclesOverlap(s.proj.Pos, g.Radius, b.Pos, g.Radius, s.cfg.CollisionRatio) {
			continue
		}
		if d := s.proj.Pos.DistSq(b.Pos); d < best {
			hit, best = b, d
		}
	}
	return hit
}

func (s *Session) finishShot(res *LandingResult) []Event {
	s.score += res.Points
	s.shots++
	s.popped += len(res.Popped)
	s.dropped += len(res.Dropped)
	s.falling = append(s.falling, res.Falling...)
	s.phase = PhaseAiming
	s.reload()
	s.next = s.rng.PickColor(s.board, s.next)

	events := res.Events
	switch {
	case res.StageCleared:
		bonus := s.cfg.Scoring.TimeBonus(s.Elapsed())
		s.score += bonus
		final := s.stages.Len() > 0 && s.stage >= s.stages.Len()
		s.phase = PhaseStageCleared
		if final {
			s.phase = PhaseComplete
		}
		events = append(events, StageClearedEvent{Stage: s.stage, TimeBonus: bonus, Final: final})
	case res.GameOver:
		s.phase = PhaseGameOver
		events = append(events, GameOverEvent{Score: s.score})
	}
	return events
}

func (s *Session) framesFor(d time.Duration) int {
	return int(d * time.Duration(s.cfg.TickRate) / time.Second)
}

// Board returns the current board. Callers must not mutate it.
func (s *Session) Board() *Board { return s.board }

// Projectile returns a copy of the player's projectile.
func (s *Session) Projectile() Projectile { return s.proj }

// Falling returns the bubbles currently falling off the board.
func (s *Session) Falling() []FallingBubble { return s.falling }

// NextColor returns the on-deck colour.
func (s *Session) NextColor() Color { return s.next }

// Aiming returns the launcher angle in degrees.
func (s *Session) Aiming() float64 { return s.aim }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Stage returns the current 1-based stage number.
func (s *Session) Stage() int { return s.stage }

// StageCount returns the number of stages, or 0 when unbounded.
func (s *Session) StageCount() int { return s.stages.Len() }


// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Elapsed returns the simulated time spent in the current stage.
func (s *Session) Elapsed() time.Duration {
	return time.Duration(s.frames) * time.Second / time.Duration(s.cfg.TickRate)
}

// Stats returns the shot, pop and drop totals for the current stage. Unlike
// Board.ShotsFired the shot total is not reset by board shifts.
func (s *Session) Stats() StageStats {
	return StageStats{
		Shots:   s.shots,
		Popped:  s.popped,
		Dropped: s.dropped,
		Elapsed: s.Elapsed(),
	}
}

// ShotSecondsLeft returns the whole seconds before the shot timer auto-fires,
// or 0 when the timer is disabled or a shot is in flight.
func (s *Session) ShotSecondsLeft() int {
	timeout := s.framesFor(s.timeout)
	if timeout <= 0 || s.phase != PhaseAiming {
		return 0
	}
	left := timeout - s.idle
	return (left + s.cfg.TickRate - 1) / s.cfg.TickRate
}
