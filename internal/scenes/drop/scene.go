// Package drop implements the drop scene: the ball falling and bouncing in a
// boxed field, with a spring-smoothed gauge of the current flight's apex.
package drop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/vovakirdan/tui-bounce/internal/core"
	sim "github.com/vovakirdan/tui-bounce/internal/drop"
	"github.com/vovakirdan/tui-bounce/internal/registry"
	"github.com/vovakirdan/tui-bounce/internal/scenes/plot"
)

// Visual characters for rendering
const (
	BallChar     = '●'
	OffFieldChar = '▲'
	GaugeChar    = '█'
	LaunchChar   = '·'
)

// Gauge spring parameters: angular frequency and damping ratio.
const (
	gaugeFrequency = 6.0
	gaugeDamping   = 1.0
)

// gaugeWidth is the number of columns reserved right of the field.
const gaugeWidth = 4

// Scene draws the ball in its field.
type Scene struct {
	sim    *sim.Simulation
	area   plot.Area
	box    core.Rect
	config core.RuntimeConfig

	spring   harmonica.Spring
	gauge    float64 // Smoothed apex height (m)
	gaugeVel float64
}

// New creates an empty drop scene. Reset must be called before use.
func New() *Scene {
	return &Scene{}
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "drop"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Bouncing Ball"
}

// Reset starts the drop described by cfg.Drop, fitted to the screen.
func (s *Scene) Reset(cfg core.RuntimeConfig) error {
	s.box = core.NewRect(0, 1, cfg.ScreenW-gaugeWidth, cfg.ScreenH-1)
	inner := s.box.Inset(1)

	dc := cfg.Drop
	dc.Field = plot.Fit(inner, dc.Field)

	simulation, err := sim.New(dc)
	if err != nil {
		return err
	}

	fps := cfg.TickRate
	if fps <= 0 {
		fps = 60
	}

	s.config = cfg
	s.sim = simulation
	s.area = plot.Place(inner, simulation.Mapper())
	s.spring = harmonica.NewSpring(harmonica.FPS(fps), gaugeFrequency, gaugeDamping)
	s.gauge = simulation.PeakHeight()
	s.gaugeVel = 0
	return nil
}

// Step advances the drop by delta.
func (s *Scene) Step(delta time.Duration) core.StepResult {
	before := s.sim.Sample().Bounces
	s.sim.Render(s.sim.Elapsed(), delta)
	s.gauge, s.gaugeVel = s.spring.Update(s.gauge, s.gaugeVel, s.sim.PeakHeight())

	return core.StepResult{
		State:   s.State(),
		Impacts: s.sim.Sample().Bounces - before,
	}
}

// Render draws the field, the ball, the apex gauge and the HUD.
func (s *Scene) Render(dst *core.Screen) {
	dst.Clear()

	dst.DrawBox(s.box, core.ColorFrame)
	s.area.DrawGround(dst)
	s.drawLaunchHeight(dst)
	s.drawGauge(dst)

	sample := s.sim.Sample()
	x, y := s.area.Cell(sample.Col, sample.Row)
	if sample.OffField {
		dst.SetColored(x, y, OffFieldChar, core.ColorOffField)
	} else {
		dst.SetColored(x, y, BallChar, core.ColorBall)
	}

	s.drawHUD(dst, sample)
}

// drawLaunchHeight marks the start height across the field.
func (s *Scene) drawLaunchHeight(dst *core.Screen) {
	m := s.sim.Mapper()
	row, err := m.MapY(s.sim.Config().Drop.StartHeight)
	if err != nil {
		return
	}
	_, y := s.area.Cell(0, row)
	for px := 0; px <= s.area.Width; px += 2 {
		x, _ := s.area.Cell(px, row)
		dst.SetColored(x, y, LaunchChar, core.ColorFrame)
	}
}

// drawGauge draws a bar from the ground up to the smoothed apex height.
func (s *Scene) drawGauge(dst *core.Screen) {
	m := s.sim.Mapper()
	height := core.ClampF(s.gauge, 0, m.HeightMeters())
	top, err := m.MapY(height)
	if err != nil {
		return
	}

	x := s.box.Right() + 1
	_, ground := s.area.Cell(0, s.area.Height)
	_, y := s.area.Cell(0, top)
	dst.DrawVLine(x, y, ground-y+1, GaugeChar, core.ColorGauge)
	dst.DrawTextColored(x-1, s.area.GroundRow(), fmt.Sprintf("%.1f", s.gauge), core.ColorGauge)
}

func (s *Scene) drawHUD(dst *core.Screen, sample sim.Sample) {
	preset := s.sim.Config().Preset
	if preset == "" {
		preset = "custom"
	}
	hud := fmt.Sprintf(" h %6.2f m  v %+6.2f m/s  bounces %d  t %5.2f s  [%s]",
		sample.Height, sample.Velocity, sample.Bounces, sample.Elapsed.Seconds(), preset)
	dst.DrawText(0, 0, hud)

	if sample.Stopped {
		msg := fmt.Sprintf(" At rest after %.2f s  |  Press R to drop again ", sample.Elapsed.Seconds())
		dst.DrawTextColored((dst.Width()-len([]rune(msg)))/2, s.box.Y+1, msg, core.ColorStatus)
	}
}

// Gauge returns the smoothed apex height shown by the gauge.
func (s *Scene) Gauge() float64 {
	return s.gauge
}

// Record returns the run simulated since the last reset.
func (s *Scene) Record() sim.RunRecord {
	return s.sim.Record()
}

// State returns the current scene state.
func (s *Scene) State() core.SceneState {
	sample := s.sim.Sample()
	return core.SceneState{
		Running: !sample.Stopped,
		Height:  sample.Height,
		Bounces: sample.Bounces,
		Elapsed: sample.Elapsed,
	}
}

// Register the scene with the registry
func init() {
	registry.Register("drop", func() registry.Scene {
		return New()
	})
}
