package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/platform/tui"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var (
	flagHistoryLimit       int
	flagHistoryInteractive bool
	flagHistoryClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show saved runs",
	Long: `Without arguments, list the most recent runs and overall statistics.
With a run ID, show that run and every impact it recorded.

Examples:
  bounce history
  bounce history --limit 5
  bounce history 3f2a9c1e-8d7b-4c55-9a0e-6b1f2d3c4e5f
  bounce history --interactive
  bounce history --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to list")
	historyCmd.Flags().BoolVarP(&flagHistoryInteractive, "interactive", "i", false, "Browse runs in a table")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all saved runs")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		if err := store.ClearRuns(); err != nil {
			fail("%v", err)
		}
		fmt.Println("All runs deleted.")

	case flagHistoryInteractive:
		cfg := runtimeConfig(loadDropConfig())
		if err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fail("%v", err)
		}

	case len(args) == 1:
		if err := printRun(store, args[0]); err != nil {
			fail("%v", err)
		}

	default:
		if err := printRecent(store, flagHistoryLimit); err != nil {
			fail("%v", err)
		}
	}
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func printRecent(store *storage.Store, limit int) error {
	runs, err := store.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Watch a drop come to rest with 'bounce play drop', or run 'bounce simulate --save'.")
		return nil
	}

	t := newTable("ID", "Preset", "g", "e", "Bounces", "Peak (m)", "Rest (s)", "Date")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.Preset,
			fmt.Sprintf("%.3f", r.Gravity),
			fmt.Sprintf("%.2f", r.Restitution),
			strconv.Itoa(r.Bounces),
			fmt.Sprintf("%.2f", r.PeakHeight),
			fmt.Sprintf("%.2f", r.SettleSecs),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t.Render())

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%d runs, most bounces %d, average rest after %.2f s\n",
		stats.Runs, stats.MaxBounces, stats.AvgSettleSecs)
	return nil
}

func printRun(store *storage.Store, id string) error {
	run, err := store.RunByID(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		return fmt.Errorf("no run with ID %q (see 'bounce history')", id)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Run %s  (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("g = %.3f m/s² (%s), restitution %.2f\n", run.Gravity, run.Preset, run.Restitution)
	fmt.Printf("from %.2f m at %+.2f m/s, peak %.3f m\n", run.StartHeight, run.StartVelocity, run.PeakHeight)
	fmt.Printf("%d bounces, at rest after %.3f s\n\n", run.Bounces, run.SettleSecs)

	impacts, err := store.Impacts(id)
	if err != nil {
		return err
	}
	if len(impacts) == 0 {
		fmt.Println("No impacts recorded.")
		return nil
	}

	t := newTable("#", "t (s)", "in (m/s)", "out (m/s)")
	for _, imp := range impacts {
		t.Row(
			strconv.Itoa(imp.Seq),
			fmt.Sprintf("%.4f", imp.AtSecs),
			fmt.Sprintf("%.4f", imp.Incoming),
			fmt.Sprintf("%.4f", imp.Outgoing),
		)
	}
	fmt.Println(t.Render())
	return nil
}
