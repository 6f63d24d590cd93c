package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/platform/tui"
	"github.com/vovakirdan/tui-bounce/internal/registry"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <scene>",
	Short: "Watch a drop in a scene",
	Long: `Start the specified scene. The ball is released from the configured
height and velocity; the animation stops by itself once the ball is at rest.

Controls:
  R/Enter    - Drop again
  P/Space    - Pause
  Ctrl+S     - Save a screenshot to ~/.bounce/screenshots
  Q/Esc      - Quit

Examples:
  bounce play drop
  bounce play trace --preset moon
  bounce play drop --config ./tall-field.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	sceneID := args[0]

	if !registry.Exists(sceneID) {
		fail("unknown scene %q\nRun 'bounce list' to see available scenes.", sceneID)
	}

	logger := newLogger(true)
	cfg := runtimeConfig(loadDropConfig())

	scene, err := registry.Create(sceneID)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		// Continue without storage - the scene still works
		store = nil
	}

	runErr := tui.Run(scene, store, cfg, logger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running scene: %v", runErr)
	}
}
