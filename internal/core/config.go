package core

import (
	"time"

	"github.com/vovakirdan/tui-bounce/internal/config"
)

// RuntimeConfig describes the surface a scene is drawn on.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Frames per second requested from the driver
	Drop     config.DropConfig
}

// DefaultConfig returns a RuntimeConfig for a classic 80x24 terminal at 60 FPS
// with the built-in drop.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Drop:     config.DefaultDropConfig(),
	}
}

// SceneState is what a scene reports to the platform after each frame.
type SceneState struct {
	Running bool          // False once the body has stopped; the driver stops ticking
	Height  float64       // Current height in meters
	Bounces int           // Impacts since the last restart
	Elapsed time.Duration // Simulated time since the last restart
}

// StepResult is returned by Scene.Step after each frame.
type StepResult struct {
	State   SceneState
	Impacts int // Impacts resolved during this frame
}

// Action is a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionRestart        // R - drop the body again from the start
	ActionPause          // P, Space - freeze/unfreeze the frame loop
	ActionBack           // B, Esc - leave the current screen
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRestart:
		return "Restart"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
