// Package trace implements the trace scene: the height of the ball plotted
// against time, scrolling left once the plot is full.
package trace

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/drop"
	"github.com/vovakirdan/tui-bounce/internal/registry"
	"github.com/vovakirdan/tui-bounce/internal/scenes/plot"
)

// Visual characters for rendering
const (
	PointChar  = '•'
	HeadChar   = '●'
	ImpactChar = '┴'
)

type point struct {
	at     time.Duration
	height float64
}

// Scene plots height over time. The horizontal axis shows the last
// field-width / drift-speed seconds of the drop.
type Scene struct {
	sim    *drop.Simulation
	area   plot.Area
	box    core.Rect
	window time.Duration // Time span covered by the field width

	points  []point
	impacts []time.Duration
}

// New creates an empty trace scene. Reset must be called before use.
func New() *Scene {
	return &Scene{}
}

// ID returns the unique identifier for this scene.
func (s *Scene) ID() string {
	return "trace"
}

// Title returns the display name for this scene.
func (s *Scene) Title() string {
	return "Height Trace"
}

// Reset starts the drop described by cfg.Drop, fitted to the screen.
func (s *Scene) Reset(cfg core.RuntimeConfig) error {
	s.box = core.NewRect(0, 1, cfg.ScreenW, cfg.ScreenH-1)
	inner := s.box.Inset(1)

	dc := cfg.Drop
	dc.Field = plot.Fit(inner, dc.Field)

	simulation, err := drop.New(dc)
	if err != nil {
		return err
	}

	s.sim = simulation
	s.area = plot.Place(inner, simulation.Mapper())
	s.window = time.Duration(dc.Field.Width / dc.Trace.DriftSpeed * float64(time.Second))
	s.points = s.points[:0]
	s.impacts = s.impacts[:0]
	s.record()
	return nil
}

// Step advances the drop by delta and appends the new height to the trace.
func (s *Scene) Step(delta time.Duration) core.StepResult {
	before := s.sim.Sample().Bounces
	s.sim.Render(s.sim.Elapsed(), delta)
	if last := s.points[len(s.points)-1]; s.sim.Elapsed() != last.at {
		s.record()
	}

	n := s.sim.Sample().Bounces - before
	if n > 0 {
		rec := s.sim.Record()
		for _, imp := range rec.Impacts[len(rec.Impacts)-n:] {
			s.impacts = append(s.impacts, imp.At)
		}
	}
	s.prune()

	return core.StepResult{
		State:   s.State(),
		Impacts: n,
	}
}

func (s *Scene) record() {
	sample := s.sim.Sample()
	s.points = append(s.points, point{at: sample.Elapsed, height: sample.Height})
}

// windowStart returns the time shown at the left edge of the plot.
func (s *Scene) windowStart() time.Duration {
	return max(s.sim.Elapsed()-s.window, 0)
}

// prune drops points that scrolled out of the window.
func (s *Scene) prune() {
	start := s.windowStart()
	i := 0
	for i < len(s.points) && s.points[i].at < start {
		i++
	}
	s.points = s.points[i:]

	j := 0
	for j < len(s.impacts) && s.impacts[j] < start {
		j++
	}
	s.impacts = s.impacts[j:]
}

// column maps a time inside the window to a plot column.
func (s *Scene) column(at time.Duration) (int, bool) {
	m := s.sim.Mapper()
	x := (at - s.windowStart()).Seconds() * s.sim.Config().Trace.DriftSpeed
	col, err := m.MapX(core.ClampF(x, 0, m.WidthMeters()))
	return col, err == nil
}

// Render draws the trace, the impacts and the HUD.
func (s *Scene) Render(dst *core.Screen) {
	dst.Clear()

	dst.DrawBox(s.box, core.ColorFrame)
	s.area.DrawGround(dst)

	m := s.sim.Mapper()
	for _, at := range s.impacts {
		if col, ok := s.column(at); ok {
			x, _ := s.area.Cell(col, 0)
			dst.SetColored(x, s.area.GroundRow(), ImpactChar, core.ColorImpact)
		}
	}

	for i, p := range s.points {
		col, ok := s.column(p.at)
		if !ok {
			continue
		}
		row, err := m.MapY(p.height)
		if err != nil {
			row = 0
		}
		x, y := s.area.Cell(col, row)
		if i == len(s.points)-1 {
			dst.SetColored(x, y, HeadChar, core.ColorBall)
		} else {
			dst.SetColored(x, y, PointChar, core.ColorTrail)
		}
	}

	sample := s.sim.Sample()
	hud := fmt.Sprintf(" t %5.2f s  h %6.2f m  bounces %d  window %.1f s",
		sample.Elapsed.Seconds(), sample.Height, sample.Bounces, s.window.Seconds())
	dst.DrawText(0, 0, hud)

	if sample.Stopped {
		dst.DrawTextColored(2, s.box.Y+1, "At rest  |  Press R to drop again", core.ColorStatus)
	}
}

// Record returns the run simulated since the last reset.
func (s *Scene) Record() drop.RunRecord {
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
	registry.Register("trace", func() registry.Scene {
		return New()
	})
}
