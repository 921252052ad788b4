package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bustapuzzle/internal/platform/tui"
	"github.com/vovakirdan/bustapuzzle/internal/storage"
)

var (
	flagLimit   int
	flagMode    string
	flagPlain   bool
	flagSummary bool
	flagClear   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished stages from the run journal",
	Long: `Display recent stage attempts recorded while playing.

On a terminal the journal opens in an interactive table; use --plain for
text output. --summary prints per-stage totals instead.

Examples:
  bustapuzzle history
  bustapuzzle history --plain --limit 20
  bustapuzzle history --summary --mode endless
  bustapuzzle history --clear --mode campaign`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show in plain output")
	historyCmd.Flags().StringVar(&flagMode, "mode", "", "Only show this mode: campaign or endless")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text instead of opening the table view")
	historyCmd.Flags().BoolVar(&flagSummary, "summary", false, "Print per-stage totals")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded runs, limited by --mode")
}

func runHistory(cmd *cobra.Command, _ []string) {
	switch flagMode {
	case "", "campaign", "endless":
	default:
		logger.Fatal("unknown mode", "mode", flagMode)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Fatal("cannot open run journal", "db", flagDBPath, "error", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		var n int64
		if n, err = store.ClearRuns(cmd.Context(), flagMode); err == nil {
			fmt.Printf("Cleared %d run(s).\n", n)
		}
	case flagSummary:
		err = printSummary(cmd, store)
	case flagPlain || !term.IsTerminal(int(os.Stdout.Fd())):
		err = printRuns(cmd, store)
	default:
		width, height := 80, 24
		if w, h, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
			width, height = w, h
		}
		err = tui.RunHistory(store, width, height)
	}
	if err != nil {
		logger.Error("history failed", "error", err)
	}
}

func printRuns(cmd *cobra.Command, store *storage.Store) error {
	runs, err := store.RecentRuns(cmd.Context(), flagMode, flagLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'bustapuzzle play' and finish a stage to start the journal!")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-5s  %-7s  %-8s  %-5s  %-6s  %-7s  %s\n",
		"Date", "Mode", "Stage", "Result", "Score", "Shots", "Popped", "Dropped", "Time")
	fmt.Printf("  %-16s  %-8s  %-5s  %-7s  %-8s  %-5s  %-6s  %-7s  %s\n",
		"----", "----", "-----", "------", "-----", "-----", "------", "-------", "----")

	for _, r := range runs {
		result := "lost"
		if r.Cleared {
			result = "cleared"
		}
		fmt.Printf("  %-16s  %-8s  %-5d  %-7s  %-8d  %-5d  %-6d  %-7d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Stage, result,
			r.Score, r.Shots, r.Popped, r.Dropped, r.Elapsed)
	}
	return nil
}

func printSummary(cmd *cobra.Command, store *storage.Store) error {
	modes := []string{"campaign", "endless"}
	if flagMode != "" {
		modes = []string{flagMode}
	}

	for _, mode := range modes {
		sums, err := store.StageSummaries(cmd.Context(), mode)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", mode)
		if len(sums) == 0 {
			fmt.Println("  no runs")
			fmt.Println()
			continue
		}

		fmt.Printf("  %-5s  %-8s  %-6s  %-10s  %-9s  %s\n", "Stage", "Attempts", "Clears", "Best score", "Avg shots", "Fastest")
		for _, s := range sums {
			fastest := "-"
			if s.Fastest > 0 {
				fastest = s.Fastest.String()
			}
			fmt.Printf("  %-5d  %-8d  %-6d  %-10d  %-9.1f  %s\n", s.Stage, s.Attempts, s.Clears, s.BestScore, s.AvgShots, fastest)
		}
		fmt.Println()
	}
	return nil
}
