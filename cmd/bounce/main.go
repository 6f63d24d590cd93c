// bounce drops a ball in the terminal and watches it bounce until it rests.
//
// Usage:
//
//	bounce                    - Interactive menu (scenes, gravity presets, history)
//	bounce list               - List available scenes
//	bounce presets            - List gravity presets
//	bounce play <scene>       - Run a scene directly
//	bounce simulate           - Run a drop headless and print its samples
//	bounce history [run-id]   - Show saved runs
//	bounce serve              - Start SSH server for remote viewing
//
// Global flags:
//
//	--fps <rate>         - Frame rate (default: 60)
//	--config <path>      - Drop configuration YAML
//	--preset <name>      - Gravity preset applied on top of the config
//	--db <path>          - Database path (default: ~/.bounce/runs.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--log-file <path>    - Write logs to a file (interactive commands discard them otherwise)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/core"

	// Import scenes to register them
	_ "github.com/vovakirdan/tui-bounce/internal/scenes/drop"
	_ "github.com/vovakirdan/tui-bounce/internal/scenes/trace"
)

var (
	// Global flags
	flagFPS      int
	flagConfig   string
	flagPreset   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bounce",
	Short: "Bounce - drop a ball in your terminal",
	Long: `Bounce simulates a ball thrown or dropped under constant gravity that
loses energy on every ground impact, and draws it in your terminal until it
comes to rest.

Available commands:
  list      - Show all available scenes
  presets   - Show gravity presets
  play      - Run a scene directly
  simulate  - Run a drop without a UI and print the samples
  history   - View saved runs
  serve     - Start SSH server for remote viewing

Run without a command for the interactive menu.

Examples:
  bounce
  bounce play drop --preset moon
  bounce simulate --format csv
  bounce history --interactive
  bounce serve --ssh :2222`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to drop config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Gravity preset (see 'bounce presets')")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bounce/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the logger from the global flags. Interactive commands own
// the terminal, so without --log-file their logs are discarded.
func newLogger(interactive bool) *log.Logger {
	var w io.Writer = os.Stderr
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			fail("cannot create log directory: %v", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fail("cannot open log file: %v", err)
		}
		w = f
	} else if interactive {
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "bounce",
	})

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fail("invalid --log-level %q", flagLogLevel)
	}
	logger.SetLevel(level)
	return logger
}

// loadDropConfig loads --config, applies --preset and validates the result.
func loadDropConfig() config.DropConfig {
	cfg, err := config.LoadDrop(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if err := config.ApplyPreset(&cfg, config.GravityPreset(flagPreset)); err != nil {
		fail("%v\nRun 'bounce presets' to see available presets.", err)
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}
	return cfg
}

// runtimeConfig sizes the runtime config to the terminal.
func runtimeConfig(drop config.DropConfig) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Drop:     drop,
	}
}
