package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/drop"
	"github.com/vovakirdan/tui-bounce/internal/frame"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var (
	flagSimFormat   string
	flagSimEvery    time.Duration
	flagSimDuration time.Duration
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a drop without a UI and print its samples",
	Long: `Run the configured drop frame by frame in virtual time (one frame per
1/fps seconds) until the ball rests or --duration is reached, and print the
samples.

Formats:
  table  - Aligned table with a summary (default)
  csv    - One row per sample, for plotting
  yaml   - Config, samples, impacts and summary

Examples:
  bounce simulate
  bounce simulate --preset jupiter --every 50ms
  bounce simulate --format csv > drop.csv
  bounce simulate --fps 1000 --format yaml --save`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimFormat, "format", "table", "Output format: table, csv, yaml")
	simulateCmd.Flags().DurationVar(&flagSimEvery, "every", 100*time.Millisecond, "Print a sample at most this often (0 = every frame)")
	simulateCmd.Flags().DurationVar(&flagSimDuration, "duration", time.Minute, "Stop after this much simulated time")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save the run to the database")
}

// simSample is one printed frame.
type simSample struct {
	T        float64 `yaml:"t"`
	Height   float64 `yaml:"height"`
	Velocity float64 `yaml:"velocity"`
	Row      int     `yaml:"row"`
	Bounces  int     `yaml:"bounces"`
	OffField bool    `yaml:"off_field,omitempty"`
}

// simImpact is one ground contact.
type simImpact struct {
	Seq      int     `yaml:"seq"`
	T        float64 `yaml:"t"`
	Incoming float64 `yaml:"incoming"`
	Outgoing float64 `yaml:"outgoing"`
}

// simReport is the full result of a headless run.
type simReport struct {
	Config     config.DropConfig `yaml:"config"`
	Frames     int               `yaml:"frames"`
	Settled    bool              `yaml:"settled"`
	SettleSecs float64           `yaml:"settle_secs,omitempty"`
	PeakHeight float64           `yaml:"peak_height"`
	RunID      string            `yaml:"run_id,omitempty"`
	Samples    []simSample       `yaml:"samples"`
	Impacts    []simImpact       `yaml:"impacts"`
}

func runSimulate(cmd *cobra.Command, args []string) {
	logger := newLogger(false)
	cfg := loadDropConfig()

	if flagFPS <= 0 {
		fail("--fps must be positive")
	}

	sim, err := drop.New(cfg)
	if err != nil {
		fail("%v", err)
	}
	sim.SetLogger(logger)

	report := simulate(sim, time.Second/time.Duration(flagFPS), flagSimEvery, flagSimDuration)
	logger.Info("simulation finished",
		"frames", report.Frames,
		"settled", report.Settled,
		"bounces", len(report.Impacts),
	)

	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fail("%v", err)
		}
		id, err := store.SaveRun(sim.Record())
		store.Close()
		if err != nil {
			fail("%v", err)
		}
		report.RunID = id
		logger.Info("run saved", "id", id)
	}

	if err := writeReport(os.Stdout, flagSimFormat, report); err != nil {
		fail("%v", err)
	}
}

// simulate drives sim in virtual time and collects a sample at most every
// `every`, always keeping the first and the last frame.
func simulate(sim *drop.Simulation, step, every, limit time.Duration) simReport {
	maxFrames := 0
	if limit > 0 {
		maxFrames = int(limit/step) + 1
	}

	var report simReport
	last := time.Duration(-1)
	report.Frames = frame.RunFixed(step, maxFrames, func(elapsed, delta time.Duration) bool {
		more := sim.Render(elapsed, delta)
		s := sim.Sample()
		if last < 0 || !more || s.Elapsed-last >= every {
			report.Samples = append(report.Samples, simSample{
				T:        s.Elapsed.Seconds(),
				Height:   s.Height,
				Velocity: s.Velocity,
				Row:      s.Row,
				Bounces:  s.Bounces,
				OffField: s.OffField,
			})
			last = s.Elapsed
		}
		return more
	})

	rec := sim.Record()
	report.Config = rec.Config
	report.Settled = rec.Settled
	report.SettleSecs = rec.SettleTime.Seconds()
	report.PeakHeight = rec.PeakHeight
	for _, imp := range rec.Impacts {
		report.Impacts = append(report.Impacts, simImpact{
			Seq:      imp.Seq,
			T:        imp.At.Seconds(),
			Incoming: imp.IncomingSpeed,
			Outgoing: imp.OutgoingSpeed,
		})
	}
	return report
}

// writeReport prints report in the requested format.
func writeReport(w io.Writer, format string, report simReport) error {
	switch format {
	case "table":
		return writeTable(w, report)
	case "csv":
		return writeCSV(w, report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (expected table, csv or yaml)", format)
	}
}

func writeCSV(w io.Writer, report simReport) error {
	cw := csv.NewWriter(w)
	//nolint:errcheck // Errors surface through cw.Error below
	cw.Write([]string{"t", "height", "velocity", "row", "bounces"})
	for _, s := range report.Samples {
		//nolint:errcheck // Errors surface through cw.Error below
		cw.Write([]string{
			strconv.FormatFloat(s.T, 'f', 4, 64),
			strconv.FormatFloat(s.Height, 'f', 6, 64),
			strconv.FormatFloat(s.Velocity, 'f', 6, 64),
			strconv.Itoa(s.Row),
			strconv.Itoa(s.Bounces),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeTable(w io.Writer, report simReport) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("t (s)", "height (m)", "velocity (m/s)", "row", "bounces").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})

	for _, s := range report.Samples {
		height := fmt.Sprintf("%.4f", s.Height)
		if s.OffField {
			height += " ^"
		}
		t.Row(
			fmt.Sprintf("%.3f", s.T),
			height,
			fmt.Sprintf("%+.4f", s.Velocity),
			strconv.Itoa(s.Row),
			strconv.Itoa(s.Bounces),
		)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	d := report.Config
	fmt.Fprintf(w, "\ng = %.3f m/s² (%s), restitution %.2f, from %.2f m at %+.2f m/s\n",
		d.Physics.Gravity, d.Preset, d.Physics.Restitution, d.Drop.StartHeight, d.Drop.StartVelocity)
	fmt.Fprintf(w, "peak %.4f m, %d bounces, %d frames\n", report.PeakHeight, len(report.Impacts), report.Frames)
	if report.Settled {
		fmt.Fprintf(w, "at rest after %.4f s\n", report.SettleSecs)
	} else {
		fmt.Fprintln(w, "still moving when the simulation stopped")
	}
	if report.RunID != "" {
		fmt.Fprintf(w, "saved as run %s\n", report.RunID)
	}
	return nil
}
