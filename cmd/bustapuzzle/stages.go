package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bustapuzzle/internal/config"
	"github.com/vovakirdan/bustapuzzle/internal/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle"
	puzzle "github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/levels/formats"
)

var (
	flagShow   int
	flagExport int
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List campaign stages",
	Long: `Shows the campaign stages with their bubble counts, and checks that each
one is valid for the configured board.

Examples:
  bustapuzzle stages
  bustapuzzle stages --show 3
  bustapuzzle stages --export 3 > my-stages/3.yaml
  bustapuzzle stages --stages-dir ./my-stages`,
	Args: cobra.NoArgs,
	Run:  runStages,
}

func init() {
	stagesCmd.Flags().IntVar(&flagShow, "show", 0, "Print an ASCII picture of this stage ID")
	stagesCmd.Flags().IntVar(&flagExport, "export", 0, "Print this stage ID as YAML")
}

func runStages(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("using default config", "error", err)
	}
	sessCfg := bustapuzzle.SessionConfig(cfg, core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed})
	grid := sessCfg.Grid()

	loader := levels.Embedded()
	source := "built-in"
	if flagStagesDir != "" {
		loader = levels.NewLoader(flagStagesDir)
		source = flagStagesDir
	}

	switch {
	case flagExport > 0:
		exportStage(loader, flagExport)
		return
	case flagShow > 0:
		showStage(loader, sessCfg, flagShow)
		return
	}

	all, err := loader.LoadAll()
	if err != nil {
		logger.Fatal("cannot load stages", "source", source, "error", err)
	}
	if len(all) == 0 {
		fmt.Printf("No stages found in %s.\n", source)
		return
	}

	fmt.Printf("Stages (%s):\n\n", source)

	maxNameLen := 4 // "Name" header
	for _, l := range all {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("  %-3s  %-*s  %-7s  %-20s  %s\n", "ID", maxNameLen, "Name", "Bubbles", "Colours", "Status")
	fmt.Printf("  %-3s  %-*s  %-7s  %-20s  %s\n", "--", maxNameLen, "----", "-------", "-------", "------")

	invalid := 0
	for _, l := range all {
		status := "ok"
		if err := puzzle.ValidateStage(grid, l.ToStage()); err != nil {
			status = err.Error()
			invalid++
		}
		fmt.Printf("  %-3d  %-*s  %-7d  %-20s  %s\n", l.ID, maxNameLen, l.Name, len(l.Placements), colours(l.Placements), status)
	}

	fmt.Println()
	if invalid > 0 {
		logger.Error("invalid stages", "count", invalid)
		os.Exit(1)
	}
	fmt.Println("Run 'bustapuzzle play --stage <n>' to start on a stage.")
}

// showStage prints one stage as it looks when play begins, loaded colours
// and shift rules included.
func showStage(loader *levels.Loader, cfg puzzle.Config, id int) {
	campaign, err := loader.Campaign(cfg.Grid())
	if err != nil {
		logger.Fatal("cannot load stages", "error", err)
	}
	pos := slices.IndexFunc(campaign, func(st puzzle.Stage) bool { return st.ID == id })
	if pos < 0 {
		logger.Fatal("stage not found", "id", id)
	}

	sess, err := puzzle.NewSession(cfg, campaign, pos+1)
	if err != nil {
		logger.Fatal("cannot start stage", "id", id, "error", err)
	}

	fmt.Printf("Stage %d: %s\n\n", id, campaign[pos].Name)
	fmt.Print(puzzle.RenderSession(sess))
	fmt.Printf("Bubbles: %s\n", boardColours(sess.Board()))
}

// exportStage writes a stage in the stage file format, ready to be edited
// and loaded with --stages-dir.
func exportStage(loader *levels.Loader, id int) {
	l, err := loader.LoadByID(id)
	if err != nil {
		logger.Fatal("cannot load stage", "id", id, "error", err)
	}
	data, err := formats.MarshalYAML(l.ToStage())
	if err != nil {
		logger.Fatal("cannot encode stage", "id", id, "error", err)
	}
	os.Stdout.Write(data)
}

// boardColours summarises the regular bubbles left on a board.
func boardColours(b *puzzle.Board) string {
	counts := b.CountByColor()
	var parts []string
	for _, c := range puzzle.RegularColors() {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%c%d", c.Char(), n))
		}
	}
	return strings.Join(parts, " ")
}

// colours summarises the regular colours a stage uses, e.g. "red:8 blue:3".
func colours(ps []puzzle.Placement) string {
	counts := map[puzzle.Color]int{}
	for _, p := range ps {
		if p.Color.IsRegular() {
			counts[p.Color]++
		}
	}
	keys := make([]puzzle.Color, 0, len(counts))
	for c := range counts {
		keys = append(keys, c)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, c := range keys {
		parts[i] = fmt.Sprintf("%c%d", c.Char(), counts[c])
	}
	return strings.Join(parts, " ")
}
