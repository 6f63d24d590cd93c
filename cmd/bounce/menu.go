package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/platform/tui"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// runMenu starts the interactive session: scene picker, scenes and history.
func runMenu(_ *cobra.Command, _ []string) {
	logger := newLogger(true)
	cfg := runtimeConfig(loadDropConfig())

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		store = nil
	}

	runErr := tui.RunSession(store, cfg, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running menu: %v", runErr)
	}
}
