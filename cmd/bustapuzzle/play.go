package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bustapuzzle/internal/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels"
	"github.com/vovakirdan/bustapuzzle/internal/platform/tui"
	"github.com/vovakirdan/bustapuzzle/internal/registry"
	"github.com/vovakirdan/bustapuzzle/internal/storage"
)

var (
	flagStage      int
	flagEndless    bool
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Bust-a-Puzzle",
	Long: `Start a game. Without --stage or --endless a menu lets you pick
the campaign, endless mode or a starting stage.

Controls:
  Left/Right  - Aim
  Up          - Centre the aim
  Space       - Fire
  Enter       - Next stage (after a clear)
  P/Esc       - Pause
  R           - Restart (after game over)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - More shots between ceiling drops
  normal - Ceiling and shot timer tighten as stages progress
  hard   - Shorter shot timer from the start
  fixed  - No progression, config values throughout

Examples:
  bustapuzzle play
  bustapuzzle play --stage 2
  bustapuzzle play --endless --difficulty hard
  bustapuzzle play --stages-dir ./my-stages`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagStage, "stage", 0, "Start on this campaign stage (1-based)")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play generated stages until game over")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if flagStage < 0 {
		logger.Fatal("invalid --stage", "stage", flagStage)
	}

	// Get terminal size early for the stage selector
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	gameID := "bustapuzzle"
	stage := flagStage
	switch {
	case flagEndless:
		gameID = "bustapuzzle_endless"
	case stage == 0:
		selection, err := tui.RunStageSelector(stageNames(), cfg)
		if err != nil {
			logger.Fatal("stage selector failed", "error", err)
		}
		if selection == nil {
			return
		}
		if selection.Endless {
			gameID = "bustapuzzle_endless"
		}
		stage = selection.Stage
	}

	// Logging goes to a file while the game owns the terminal.
	playLog, closeLog := openPlayLog()
	defer closeLog()

	bustapuzzle.SetConfigPath(flagConfig)
	bustapuzzle.SetStagesDir(flagStagesDir)
	bustapuzzle.SetDifficultyPreset(flagDifficulty)
	bustapuzzle.SetStartStage(stage)
	bustapuzzle.SetLogger(playLog)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("run journal disabled", "db", flagDBPath, "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
		bustapuzzle.SetOutcomeSink(journal(cmd.Context(), store, playLog))
	}

	game, err := registry.Create(gameID)
	if err != nil {
		logger.Fatal("cannot create game", "game", gameID, "error", err)
	}

	if err := tui.Run(game, cfg, playLog); err != nil {
		logger.Error("game stopped", "error", err)
		return
	}
	if g, ok := game.(*bustapuzzle.Game); ok && g.Err() != nil {
		logger.Error("game ended with an error", "error", g.Err())
	}

	st := game.State()
	fmt.Printf("%s: stage %d, score %d\n", game.Title(), st.Level, st.Score)
}

// journal returns an outcome sink that records each finished stage.
func journal(ctx context.Context, store *storage.Store, l *log.Logger) func(bustapuzzle.Outcome) {
	if ctx == nil {
		ctx = context.Background()
	}
	return func(o bustapuzzle.Outcome) {
		_, err := store.RecordRun(ctx, storage.Run{
			Mode:    o.Mode,
			Stage:   o.Stage,
			Cleared: o.Cleared,
			Score:   o.Score,
			Shots:   o.Shots,
			Popped:  o.Popped,
			Dropped: o.Dropped,
			Elapsed: o.Elapsed,
		})
		if err != nil {
			l.Warn("run not recorded", "stage", o.Stage, "error", err)
		}
	}
}

// openPlayLog returns a logger writing to ~/.bustapuzzle/play.log, or one that
// discards output if the file cannot be opened.
func openPlayLog() (*log.Logger, func()) {
	opts := log.Options{ReportTimestamp: true, Prefix: "bustapuzzle", Level: logger.GetLevel()}

	home, err := os.UserHomeDir()
	if err == nil {
		dir := filepath.Join(home, ".bustapuzzle")
		if err = os.MkdirAll(dir, 0o755); err == nil {
			var f *os.File
			f, err = os.OpenFile(filepath.Join(dir, "play.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err == nil {
				return log.NewWithOptions(f, opts), func() { f.Close() }
			}
		}
	}
	logger.Warn("play log disabled", "error", err)
	return log.NewWithOptions(io.Discard, opts), func() {}
}

// stageNames lists the campaign stage names for the selector.
func stageNames() []string {
	loader := levels.Embedded()
	if flagStagesDir != "" {
		loader = levels.NewLoader(flagStagesDir)
	}
	all, err := loader.LoadAll()
	if err != nil {
		logger.Warn("cannot list stages", "error", err)
		return nil
	}
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("Stage %d", l.ID)
		}
	}
	return names
}
