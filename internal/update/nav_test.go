package update

import (
	"testing"

	"github.com/sandeepkv93/todo/internal/model"
)

func partition(categories ...string) []model.Task {
	out := make([]model.Task, 0, len(categories))
	for i, c := range categories {
		out = append(out, model.Task{ID: model.TaskID(100 + i), Text: "t", Category: c})
	}
	return out
}

func TestNavMovementClamps(t *testing.T) {
	s := NewNavState(0)
	s.Up(5)
	if s.Selected != 0 {
		t.Fatalf("up at top moved to %d", s.Selected)
	}
	s.Down(5)
	s.Down(5)
	if s.Selected != 2 {
		t.Fatalf("expected 2 after two downs, got %d", s.Selected)
	}
	s.End(5)
	s.Down(5)
	if s.Selected != 4 {
		t.Fatalf("down at bottom moved to %d", s.Selected)
	}
	s.Home(5)
	if s.Selected != 0 {
		t.Fatalf("home: got %d", s.Selected)
	}
	s.End(0)
	if s.Selected != 0 {
		t.Fatalf("end on empty list: got %d", s.Selected)
	}
}

func TestNavPaging(t *testing.T) {
	s := NewNavState(0)
	s.PageDown(25)
	if s.Selected != 10 {
		t.Fatalf("expected page step of 10, got %d", s.Selected)
	}
	s.PageDown(25)
	s.PageDown(25)
	if s.Selected != 24 {
		t.Fatalf("expected clamp at last, got %d", s.Selected)
	}
	s.PageUp(25)
	if s.Selected != 14 {
		t.Fatalf("expected 14, got %d", s.Selected)
	}

	custom := NewNavState(3)
	custom.PageDown(25)
	if custom.Selected != 3 {
		t.Fatalf("expected custom page size, got %d", custom.Selected)
	}
}

func TestNavSwitchViewKeepsFilter(t *testing.T) {
	s := NewNavState(0)
	s.SetFilter(model.ByCategory("work"), 4)
	s.Selected = 3
	s.SwitchView()
	if s.View != model.PartitionCompleted || s.Selected != 0 {
		t.Fatalf("unexpected state after switch %+v", s)
	}
	if s.Filter != model.ByCategory("work") {
		t.Fatalf("filter not preserved: %+v", s.Filter)
	}
	s.SwitchView()
	if s.View != model.PartitionCurrent {
		t.Fatalf("expected back to current, got %v", s.View)
	}
}

func TestNavSetFilterOnlyClamps(t *testing.T) {
	s := NewNavState(0)
	s.Selected = 2
	s.SetFilter(model.ByCategory("home"), 5)
	if s.Selected != 2 {
		t.Fatalf("filter change must not reset selection, got %d", s.Selected)
	}
	s.SetFilter(model.ByCategory("work"), 1)
	if s.Selected != 0 {
		t.Fatalf("expected clamp to 0, got %d", s.Selected)
	}
}

func TestNavGoto(t *testing.T) {
	tasks := partition("work", "home", "work", "home")
	s := NewNavState(0)

	if !s.Goto(3, tasks) || s.Selected != 2 {
		t.Fatalf("goto 3 unfiltered: ok selection %d", s.Selected)
	}

	s.SetFilter(model.ByCategory("home"), 2)
	s.Selected = 0
	if !s.Goto(4, tasks) || s.Selected != 1 {
		t.Fatalf("goto 4 under home filter should select index 1, got %d", s.Selected)
	}
	if s.Goto(3, tasks) {
		t.Fatal("goto to a filtered-out task must be a no-op")
	}
	if s.Selected != 1 || s.Filter != model.ByCategory("home") {
		t.Fatalf("no-op goto changed state: %+v", s)
	}
	for _, n := range []int{0, -1, 5} {
		if s.Goto(n, tasks) {
			t.Fatalf("goto %d should be rejected", n)
		}
	}
}
