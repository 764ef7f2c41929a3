package view

import (
	"ChartStack/internal/model"
)

// fakePane simulates a charting-library pane: applying a range fires the
// pane's own range-change notification, exactly like the real surface.
type fakePane struct {
	r        model.LogicalRange
	hasRange bool
	fns      []func(model.LogicalRange)

	setCalls  int
	fullRange model.LogicalRange
	autoScale bool

	// pixelWidth enables LogicalAt; 0 makes pixel resolution fail.
	pixelWidth float64

	// applyOffset shifts the first SetVisibleRange by a constant, emulating
	// axis-relabeling drift; cleared after one use.
	applyOffset float64
}

func (p *fakePane) VisibleRange() (model.LogicalRange, bool) { return p.r, p.hasRange }

func (p *fakePane) SetVisibleRange(r model.LogicalRange) {
	p.setCalls++
	if p.applyOffset != 0 {
		r.From += p.applyOffset
		r.To += p.applyOffset
		p.applyOffset = 0
	}
	p.r = r
	p.hasRange = true
	p.notify(r)
}

func (p *fakePane) LogicalAt(pixel float64) (float64, bool) {
	if !p.hasRange || p.pixelWidth <= 0 {
		return 0, false
	}
	return p.r.From + pixel/p.pixelWidth*p.r.Width(), true
}

func (p *fakePane) OnRangeChange(fn func(model.LogicalRange)) {
	p.fns = append(p.fns, fn)
}

func (p *fakePane) FitContent() {
	p.SetVisibleRange(p.fullRange)
}

func (p *fakePane) EnableAutoScale() { p.autoScale = true }

func (p *fakePane) notify(r model.LogicalRange) {
	for _, fn := range p.fns {
		fn(r)
	}
}

// drag simulates a user-driven range change that did not come through
// SetVisibleRange.
func (p *fakePane) drag(r model.LogicalRange) {
	p.r = r
	p.hasRange = true
	p.notify(r)
}

// frameQueue is a FrameScheduler collecting callbacks for manual firing.
type frameQueue struct {
	pending []func()
}

func (q *frameQueue) Schedule(fn func()) { q.pending = append(q.pending, fn) }

func (q *frameQueue) fire() {
	pending := q.pending
	q.pending = nil
	for _, fn := range pending {
		fn()
	}
}
