package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/drop"
	"github.com/vovakirdan/tui-bounce/internal/registry"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

func init() {
	registry.Register("countdown", func() registry.Scene {
		return &countdownScene{steps: 2}
	})
}

func update(t *testing.T, m SessionModel, k string) SessionModel {
	t.Helper()
	next, _ := m.Update(keyMsg(k))
	return next.(SessionModel)
}

func TestMenuCyclesPresets(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())

	next, _ := m.Update(keyMsg("l"))
	m = next.(MenuModel)
	if got := m.Config().Drop.Preset; got != "jupiter" {
		t.Errorf("preset after right = %q, expected jupiter", got)
	}
	if g := m.Config().Drop.Physics.Gravity; g != -24.79 {
		t.Errorf("gravity = %v, expected -24.79", g)
	}

	// earth, helsinki, jupiter, mars, moon: left from earth wraps to moon
	for i := 0; i < 3; i++ {
		next, _ = m.Update(keyMsg("h"))
		m = next.(MenuModel)
	}
	if got := m.Config().Drop.Preset; got != "moon" {
		t.Errorf("preset after wrapping left = %q, expected moon", got)
	}
	if !strings.Contains(m.View(), "moon") {
		t.Error("View() should show the current preset")
	}
}

func TestSessionMenuToSceneAndBack(t *testing.T) {
	m := NewSessionModel(nil, core.DefaultConfig(), nil)

	// Move the cursor to the countdown scene
	for i, info := range registry.List() {
		if info.ID == "countdown" {
			for j := 0; j < i; j++ {
				m = update(t, m, "j")
			}
		}
	}

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(SessionModel)
	if m.view != viewScene || cmd == nil {
		t.Fatalf("view = %v, expected the scene with a tick scheduled", m.view)
	}
	if !strings.Contains(m.View(), "countdown") {
		t.Errorf("scene not rendered:\n%s", m.View())
	}

	m = update(t, m, "esc")
	if m.view != viewMenu {
		t.Errorf("view after esc = %v, expected menu", m.view)
	}
	if m.quit {
		t.Error("esc in a scene should not end the session")
	}
}

func TestSessionHistory(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rec := drop.RunRecord{
		Config:     core.DefaultConfig().Drop,
		Bounces:    7,
		SettleTime: 6 * time.Second,
		Impacts: []drop.ImpactRecord{
			{Seq: 1, At: 1883 * time.Millisecond, IncomingSpeed: 13.5, OutgoingSpeed: 8.1},
		},
	}
	id, err := store.SaveRun(rec)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	cfg := core.DefaultConfig()
	cfg.ScreenW = 120
	cfg.ScreenH = 30
	m := NewSessionModel(store, cfg, nil)
	m = update(t, m, "tab")
	if m.view != viewHistory {
		t.Fatalf("view after tab = %v, expected history", m.view)
	}

	run, ok := m.history.SelectedRun()
	if !ok || run.ID != id {
		t.Errorf("SelectedRun() = %+v, expected run %s", run, id)
	}
	view := m.View()
	if !strings.Contains(view, shortID(id)) || !strings.Contains(view, "RECENT DROPS (1)") {
		t.Errorf("history view missing the run:\n%s", view)
	}
	if len(m.history.impacts) != 1 {
		t.Errorf("impacts loaded = %d, expected 1", len(m.history.impacts))
	}

	m = update(t, m, "b")
	if m.view != viewMenu {
		t.Errorf("view after back = %v, expected menu", m.view)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	h := NewHistoryModel(nil, 80, 24)
	if !strings.Contains(h.View(), "no run database") {
		t.Errorf("View() = %q", h.View())
	}
}
