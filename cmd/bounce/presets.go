package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bounce/internal/config"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List gravity presets",
	Long: `Shows the gravity presets that --preset accepts.

Examples:
  bounce presets
  bounce play drop --preset mars`,
	Run: runPresets,
}

func runPresets(cmd *cobra.Command, args []string) {
	def := config.DefaultDropConfig().Preset

	fmt.Println("Gravity presets:")
	fmt.Println()
	fmt.Printf("  %-10s  %s\n", "Name", "g (m/s²)")
	fmt.Printf("  %-10s  %s\n", "----", "--------")
	for _, p := range config.Presets() {
		marker := ""
		if string(p.Name) == def {
			marker = "  (default)"
		}
		fmt.Printf("  %-10s  %8.3f%s\n", p.Name, p.Gravity, marker)
	}
}
