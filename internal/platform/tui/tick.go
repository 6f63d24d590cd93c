// Package tui provides the Bubble Tea integration for the simulator.
// It handles the terminal UI loop, input mapping, and scene orchestration.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one frame of the scene.
type TickMsg struct {
	Time  time.Time
	Chain uint64 // Tick chain the message belongs to
}

var chains atomic.Uint64

// nextChain returns a new tick chain ID. Ticks of an older chain are ignored,
// so at most one chain drives a model even across restarts.
func nextChain() uint64 {
	return chains.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a single tick message after
// one frame at the specified rate. The model schedules the next tick only while
// the scene is still moving.
func tickCmd(tickRate int, chain uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Chain: chain}
	})
}
