package view

import (
	"testing"

	"ChartStack/internal/model"
)

func TestCoordinator_Convergence(t *testing.T) {
	c := NewCoordinator()
	panes := []*fakePane{{}, {}, {}}
	for _, p := range panes {
		c.Register(p)
	}

	want := model.LogicalRange{From: 10, To: 110}
	panes[1].drag(want)

	for i, p := range panes {
		if p.r != want {
			t.Errorf("pane %d: range %+v, want %+v", i, p.r, want)
		}
	}
	// Source pane never receives SetVisibleRange; every other pane exactly once.
	if panes[1].setCalls != 0 {
		t.Errorf("source pane received %d SetVisibleRange calls", panes[1].setCalls)
	}
	for _, i := range []int{0, 2} {
		if panes[i].setCalls != 1 {
			t.Errorf("pane %d received %d SetVisibleRange calls, want 1", i, panes[i].setCalls)
		}
	}
}

func TestCoordinator_RepeatedTriggers(t *testing.T) {
	c := NewCoordinator()
	a, b := &fakePane{}, &fakePane{}
	c.Register(a)
	c.Register(b)

	for i := 0; i < 5; i++ {
		a.drag(model.LogicalRange{From: float64(i), To: float64(i) + 50})
	}
	if b.setCalls != 5 {
		t.Errorf("pane b received %d calls, want 5 (one per trigger)", b.setCalls)
	}
	if b.r != (model.LogicalRange{From: 4, To: 54}) {
		t.Errorf("pane b final range %+v", b.r)
	}
}

func TestCoordinator_InvalidRangeDropped(t *testing.T) {
	c := NewCoordinator()
	a, b := &fakePane{}, &fakePane{}
	c.Register(a)
	c.Register(b)

	a.drag(model.LogicalRange{From: 5, To: 5})
	if b.setCalls != 0 {
		t.Errorf("zero-width range propagated: %d calls", b.setCalls)
	}
	a.drag(model.LogicalRange{From: 9, To: 3})
	if b.setCalls != 0 {
		t.Errorf("inverted range propagated: %d calls", b.setCalls)
	}
}

func TestCoordinator_Reset(t *testing.T) {
	c := NewCoordinator()
	primary := &fakePane{fullRange: model.LogicalRange{From: 0, To: 500}}
	other := &fakePane{r: model.LogicalRange{From: 40, To: 60}, hasRange: true}
	c.Register(primary)
	c.Register(other)

	c.Reset()

	if !primary.autoScale {
		t.Error("Reset did not re-enable autoscale on the primary pane")
	}
	want := model.LogicalRange{From: 0, To: 500}
	if primary.r != want || other.r != want {
		t.Errorf("ranges after reset: primary %+v, other %+v, want %+v", primary.r, other.r, want)
	}
}

func TestCoordinator_ResetWithoutPanes(t *testing.T) {
	// Must not panic.
	NewCoordinator().Reset()
}
