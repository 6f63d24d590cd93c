package drop

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/registry"
)

const frameTime = time.Second / 60

func newScene(t *testing.T) *Scene {
	t.Helper()
	s := New()
	if err := s.Reset(core.DefaultConfig()); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	return s
}

func findRune(scr *core.Screen, r rune) (int, int, bool) {
	for y := 0; y < scr.Height(); y++ {
		for x := 0; x < scr.Width(); x++ {
			if scr.Get(x, y) == r {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestRegistered(t *testing.T) {
	if !registry.Exists("drop") {
		t.Fatal("drop scene not registered")
	}
	s, err := registry.Create("drop")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, ok := s.(registry.Recorder); !ok {
		t.Error("drop scene should implement registry.Recorder")
	}
}

func TestResetRejectsInvalidDrop(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Drop.Physics.Gravity = 1

	if err := New().Reset(cfg); err == nil {
		t.Error("Reset() with upward gravity should fail")
	}
}

func TestInitialRender(t *testing.T) {
	s := newScene(t)
	scr := core.NewScreen(80, 24)
	s.Render(scr)

	x, y, ok := findRune(scr, BallChar)
	if !ok {
		t.Fatalf("ball not drawn:\n%s", scr.String())
	}
	// 10 m field fitted to 80x24 at 1.9 cells per meter, origin (28, 2).
	if x != 38 || y != 6 {
		t.Errorf("ball at (%d, %d), expected (38, 6)", x, y)
	}
	if scr.GetCell(x, y).Color != core.ColorBall {
		t.Errorf("ball color = %v, expected bright yellow", scr.GetCell(x, y).Color)
	}
	if !strings.Contains(scr.Row(0), "bounces 0") {
		t.Errorf("HUD = %q, expected bounce count", scr.Row(0))
	}
	if !strings.Contains(scr.Row(0), "[helsinki]") {
		t.Errorf("HUD = %q, expected preset name", scr.Row(0))
	}
	if scr.Get(28, 22) != '▀' {
		t.Errorf("ground not drawn at (28, 22): %q", scr.Row(22))
	}
}

func TestRunsUntilRest(t *testing.T) {
	s := newScene(t)

	impacts := 0
	for i := 0; i < 60*60 && s.State().Running; i++ {
		impacts += s.Step(frameTime).Impacts
	}

	st := s.State()
	if st.Running {
		t.Fatal("drop still running after a minute")
	}
	if st.Height != 0 {
		t.Errorf("Height = %v, expected 0", st.Height)
	}
	if impacts != st.Bounces {
		t.Errorf("sum of impacts = %d, expected %d", impacts, st.Bounces)
	}

	rec := s.Record()
	if !rec.Settled || rec.Bounces != st.Bounces {
		t.Errorf("record = %+v, expected settled with %d bounces", rec, st.Bounces)
	}

	scr := core.NewScreen(80, 24)
	s.Render(scr)
	if !strings.Contains(scr.String(), "At rest after") {
		t.Errorf("rest message missing:\n%s", scr.String())
	}
	if _, y, ok := findRune(scr, BallChar); !ok || y != 21 {
		t.Errorf("resting ball row = %d, expected 21", y)
	}
}

func TestGaugeFollowsApex(t *testing.T) {
	s := newScene(t)
	start := s.Gauge()
	if math.Abs(start-config.DefaultDropConfig().PeakHeight()) > 1e-9 {
		t.Errorf("initial gauge = %v, expected the launch apex", start)
	}

	for i := 0; i < 60*60 && s.State().Running; i++ {
		s.Step(frameTime)
	}
	// Critically damped spring settles on the resting apex within a few seconds.
	for i := 0; i < 5*60; i++ {
		s.Step(frameTime)
	}
	if g := s.Gauge(); math.Abs(g) > 0.01 {
		t.Errorf("gauge = %v after rest, expected ~0", g)
	}
}

func TestOffFieldMarker(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Drop.Drop.StartHeight = 9.5

	s := New()
	if err := s.Reset(cfg); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	for i := 0; i < 18; i++ {
		s.Step(frameTime)
	}

	scr := core.NewScreen(80, 24)
	s.Render(scr)
	if _, _, ok := findRune(scr, OffFieldChar); !ok {
		t.Errorf("off-field marker missing at height %v", s.State().Height)
	}
}
