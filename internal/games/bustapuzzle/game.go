// Package bustapuzzle plugs the Bust-a-Puzzle simulation into the terminal platform.
package bustapuzzle

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bustapuzzle/internal/config"
	platformcore "github.com/vovakirdan/bustapuzzle/internal/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels"
	"github.com/vovakirdan/bustapuzzle/internal/registry"
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Play the stage files in order, win at the end
	ModeEndless                  // Generated stages, play until game over
)

func (m GameMode) String() string {
	if m == ModeEndless {
		return "endless"
	}
	return "campaign"
}

// Outcome describes one finished stage attempt.
type Outcome struct {
	Mode    string
	Stage   int
	Cleared bool
	Score   int // Running score when the stage ended
	Shots   int
	Popped  int
	Dropped int
	Elapsed time.Duration
}

// Package-level settings applied on the next Reset, set via CLI.
var (
	configPath       string
	stagesDir        string
	difficultyPreset config.DifficultyPreset
	startStage       int
	outcomeSink      func(Outcome)
	logger           = log.Default()
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetStagesDir makes the campaign load stage files from dir instead of the
// compiled-in set. An empty dir restores the built-in stages.
func SetStagesDir(dir string) {
	stagesDir = dir
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetStartStage sets the 1-based stage the next game starts on. 0 means the first.
func SetStartStage(stage int) {
	startStage = stage
}

// SetOutcomeSink registers a function called once per finished stage attempt.
func SetOutcomeSink(f func(Outcome)) {
	outcomeSink = f
}

// SetLogger replaces the logger used for configuration and invariant failures.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

func init() {
	registry.Register("bustapuzzle", func() registry.Game {
		return New()
	})
	registry.Register("bustapuzzle_endless", func() registry.Game {
		return NewEndless()
	})
}

// Game adapts a core session to the registry.Game interface.
type Game struct {
	mode GameMode

	session *core.Session
	cfg     config.PuzzleConfig
	stages  core.StageSource
	seed    uint64

	paused bool
	err    error  // Invariant violation, the session is unusable
	status string // Last notable event, shown in the HUD

	// Layout (computed from screen size)
	screenW, screenH int
	originX, originY int // Screen position of board pixel (0, 0)
	tooSmall         bool
}

// New creates a new game instance (campaign mode).
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new game instance in endless mode.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "bustapuzzle_endless"
	}
	return "bustapuzzle"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Bust-a-Puzzle (Endless)"
	}
	return "Bust-a-Puzzle"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime platformcore.RuntimeConfig) {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	config.ApplyPreset(&cfg, difficultyPreset)

	g.cfg = cfg
	g.session = nil
	g.seed = uint64(runtime.Seed)
	g.paused = false
	g.err = nil
	g.status = ""
	g.screenW = runtime.ScreenW
	g.screenH = runtime.ScreenH

	sessCfg := SessionConfig(cfg, runtime)
	g.stages, err = g.loadStages(sessCfg.Grid())
	if err == nil {
		first := 1
		if startStage > 0 {
			first = startStage
		}
		g.session, err = core.NewSession(sessCfg, g.stages, first)
	}
	if err != nil {
		g.fail("cannot start game", err)
		return
	}
	g.calculateLayout()
}

// SessionConfig converts the YAML configuration into session parameters,
// wiring the difficulty schedule into shift and shot-timer rules.
func SessionConfig(cfg config.PuzzleConfig, runtime platformcore.RuntimeConfig) core.Config {
	sc := core.DefaultConfig()
	sc.Columns = cfg.Board.Columns
	sc.Rows = cfg.Board.Rows
	sc.Radius = cfg.Board.BubbleRadius
	sc.ShiftShots = cfg.Board.ShiftShots
	sc.ShotSpeed = cfg.Shot.Speed
	sc.CollisionRatio = cfg.Shot.CollisionRatio
	sc.MaxAngle = cfg.Shot.MaxAngle
	sc.AimStep = cfg.Shot.AimStep
	sc.ShotTimeout = time.Duration(cfg.Shot.TimeoutSeconds) * time.Second
	sc.CountdownFrom = time.Duration(cfg.Shot.WarningSeconds) * time.Second
	sc.Scoring = core.Scoring{
		TimeBonusPar:  time.Duration(cfg.Scoring.TimeBonusPar) * time.Second,
		TimeBonusRate: cfg.Scoring.TimeBonusRate,
	}
	if runtime.TickRate > 0 {
		sc.TickRate = runtime.TickRate
	}
	sc.Seed = uint64(runtime.Seed)

	difficulty := config.NewDifficultyManager(cfg.Difficulty)
	if difficulty.IsEnabled() {
		sc.ShiftSchedule = func(stage int) int {
			return difficulty.ShiftShots(cfg.Board.ShiftShots, stage)
		}
		sc.TimeoutSchedule = func(stage int) time.Duration {
			return time.Duration(difficulty.TimeoutSeconds(cfg.Shot.TimeoutSeconds, stage)) * time.Second
		}
	}
	return sc
}

func (g *Game) loadStages(grid core.Grid) (core.StageSource, error) {
	if g.mode == ModeEndless {
		return core.DefaultEndless(grid.Columns, grid.Rows, g.seed), nil
	}
	loader := levels.Embedded()
	if stagesDir != "" {
		loader = levels.NewLoader(stagesDir)
	}
	campaign, err := loader.Campaign(grid)
	if err != nil {
		return nil, fmt.Errorf("loading stages: %w", err)
	}
	return campaign, nil
}

// fail records an unrecoverable error and ends the game.
func (g *Game) fail(msg string, err error) {
	g.err = err
	g.status = msg
	kv := []any{"mode", g.mode, "error", err}
	if g.session != nil {
		kv = append(kv, "stage", g.session.Stage())
	}
	if cell, ok := core.ErrorCell(err); ok {
		kv = append(kv, "cell", cell.String())
	}
	logger.Error(msg, kv...)
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.err != nil || g.session == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionRestart) && g.session.Phase().Terminal() && g.session.Phase() != core.PhaseStageCleared {
		g.restart()
		return platformcore.StepResult{State: g.State()}
	}
	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	s := g.session
	switch s.Phase() {
	case core.PhaseStageCleared:
		if in.Has(platformcore.ActionConfirm) || in.Has(platformcore.ActionFire) {
			if err := s.AdvanceStage(); err != nil {
				g.fail("cannot load next stage", err)
			} else {
				g.status = fmt.Sprintf("Stage %d", s.Stage())
			}
		}
	case core.PhaseAiming:
		g.handleAim(in)
	}

	events, err := s.Tick(1)
	if err != nil {
		g.fail("cascade failed", err)
	}
	return platformcore.StepResult{State: g.State(), Events: g.handleEvents(events)}
}

func (g *Game) handleAim(in platformcore.InputFrame) {
	s := g.session
	step := s.Config().AimStep
	if in.Has(platformcore.ActionLeft) {
		s.Aim(step)
	}
	if in.Has(platformcore.ActionRight) {
		s.Aim(-step)
	}
	if in.Has(platformcore.ActionCenter) {
		s.CenterAim()
	}
	if in.Has(platformcore.ActionFire) {
		s.FireShot(s.Aiming())
	}
}

// restart replaces the session; the finished one is left as it was.
func (g *Game) restart() {
	fresh, err := g.session.Restart()
	if err != nil {
		g.fail("cannot restart", err)
		return
	}
	g.session = fresh
	g.status = ""
}

// handleEvents updates the HUD status, reports finished stages and returns
// a readable log line per event.
func (g *Game) handleEvents(events []core.Event) []string {
	if len(events) == 0 {
		return nil
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		line := describe(e)
		switch e.(type) {
		case core.StageClearedEvent:
			g.report(true)
			g.status = line
		case core.GameOverEvent:
			g.report(false)
			g.status = line
		case core.CountdownTickEvent, core.ShiftWarningEvent, core.BoardShiftedEvent,
			core.PoppedEvent, core.DroppedEvent, core.MissedEvent:
			g.status = line
		}
		lines = append(lines, line)
	}
	return lines
}

func (g *Game) report(cleared bool) {
	snap := g.Snapshot()
	logger.Debug("stage finished", "mode", g.mode, "stage", g.session.Stage(),
		"cleared", cleared, "state", snap.Hash())
	if outcomeSink == nil {
		return
	}
	stats := g.session.Stats()
	outcomeSink(Outcome{
		Mode:    g.mode.String(),
		Stage:   g.session.Stage(),
		Cleared: cleared,
		Score:   g.session.Score(),
		Shots:   stats.Shots,
		Popped:  stats.Popped,
		Dropped: stats.Dropped,
		Elapsed: stats.Elapsed,
	})
}

func describe(e core.Event) string {
	switch ev := e.(type) {
	case core.LandedEvent:
		return fmt.Sprintf("%s landed at %s", ev.Color, ev.Cell)
	case core.PoppedEvent:
		return fmt.Sprintf("Popped %d (+%d)", ev.Count, ev.Points)
	case core.DroppedEvent:
		return fmt.Sprintf("Dropped %d (+%d)", ev.Count, ev.Points)
	case core.AnchorPrunedEvent:
		return fmt.Sprintf("Pruned %d anchors", ev.Count)
	case core.BoardShiftedEvent:
		return "The ceiling drops!"
	case core.ShiftWarningEvent:
		return "Ceiling drops in 2 shots"
	case core.StageClearedEvent:
		if ev.Final {
			return fmt.Sprintf("All stages cleared! Time bonus +%d", ev.TimeBonus)
		}
		return fmt.Sprintf("Stage %d cleared! Time bonus +%d", ev.Stage, ev.TimeBonus)
	case core.GameOverEvent:
		return fmt.Sprintf("Game over, final score %d", ev.Score)
	case core.MissedEvent:
		return "Missed"
	case core.CountdownTickEvent:
		return fmt.Sprintf("Fire! %d", ev.SecondsLeft)
	default:
		return fmt.Sprintf("%T", e)
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Paused: g.paused,
		Status: g.status,
	}
	if g.session == nil {
		st.GameOver = true
		return st
	}
	st.Score = g.session.Score()
	st.Level = g.session.Stage()
	switch g.session.Phase() {
	case core.PhaseGameOver:
		st.GameOver = true
	case core.PhaseComplete:
		st.GameOver = true
		st.Won = true
	}
	if g.err != nil {
		st.GameOver = true
	}
	return st
}

// Session exposes the underlying simulation, mainly for tests.
func (g *Game) Session() *core.Session {
	return g.session
}

// Err returns the error that stopped the game, if any.
func (g *Game) Err() error {
	return g.err
}
