package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-bounce/internal/core"
)

type stubScene struct {
	id, title string
}

func (s *stubScene) ID() string { return s.id }
func (s *stubScene) Title() string { return s.title }
func (s *stubScene) Reset(core.RuntimeConfig) error { return nil }
func (s *stubScene) Step(time.Duration) core.StepResult { return core.StepResult{} }
func (s *stubScene) Render(*core.Screen) {}
func (s *stubScene) State() core.SceneState { return core.SceneState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz-stub", func() Scene { return &stubScene{id: "zz-stub", title: "Stub"} })

	if !Exists("zz-stub") {
		t.Fatal("Exists(zz-stub) = false, expected true")
	}

	s, err := Create("zz-stub")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if s.Title() != "Stub" {
		t.Errorf("Title() = %q, expected %q", s.Title(), "Stub")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz-stub" {
			found = info.Title == "Stub"
		}
	}
	if !found {
		t.Errorf("List() = %+v, expected zz-stub with its title", List())
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-scene"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Create() error = %v, expected ErrUnknownScene", err)
	}
	if Exists("no-such-scene") {
		t.Error("Exists(no-such-scene) = true, expected false")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Scene { return &stubScene{id: "zz-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("second Register() did not panic")
		}
	}()
	Register("zz-dup", func() Scene { return &stubScene{id: "zz-dup"} })
}

func TestListSorted(t *testing.T) {
	Register("zz-b", func() Scene { return &stubScene{id: "zz-b"} })
	Register("zz-a", func() Scene { return &stubScene{id: "zz-a"} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
