// bustapuzzle is a hex bubble shooter for the terminal.
//
// Usage:
//
//	bustapuzzle play             - Pick a mode and play
//	bustapuzzle stages           - List the campaign stages
//	bustapuzzle history          - Browse the run journal
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set journal path (default: ~/.bustapuzzle/journal.db)
//	--config <path>       - Use a custom tuning YAML
//	--stages-dir <path>   - Load campaign stages from a directory
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagStagesDir string
	flagDebug     bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "bustapuzzle",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bustapuzzle",
	Short: "Bust-a-Puzzle - pop bubbles in your terminal",
	Long: `Bust-a-Puzzle is a hexagonal bubble shooter for the terminal.

Aim the launcher, fire coloured bubbles and match three or more to pop
them. Anything no longer hanging from the ceiling falls. Every few shots
the ceiling drops a row; let a bubble cross the line and the game ends.

Available commands:
  play     - Play the campaign, endless mode or a chosen stage
  stages   - List campaign stages or preview one
  history  - Browse finished stages from the run journal

Examples:
  bustapuzzle play
  bustapuzzle play --endless --seed 42
  bustapuzzle play --stage 3 --difficulty hard
  bustapuzzle stages --show 2
  bustapuzzle history --limit 20`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bustapuzzle/journal.db", "Path to the run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning config YAML")
	rootCmd.PersistentFlags().StringVar(&flagStagesDir, "stages-dir", "", "Directory of stage YAML files (default: built-in stages)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(historyCmd)
}
