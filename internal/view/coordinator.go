package view

import "ChartStack/internal/model"

// Coordinator keeps every registered pane viewing the identical logical time
// window. Applying a range to a pane raises that pane's own range-change
// notification, so fan-out runs behind a re-entrancy guard: events arriving
// while a propagation is in progress are dropped, which bounds the call depth
// to a single synchronous pass.
type Coordinator struct {
	panes   []Pane
	syncing bool
}

// NewCoordinator creates an empty Coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Register adds a pane to the managed set and subscribes to its range
// changes. The first registered pane becomes the primary pane. Membership is
// append-only for the session lifetime.
func (c *Coordinator) Register(p Pane) {
	c.panes = append(c.panes, p)
	source := p
	p.OnRangeChange(func(r model.LogicalRange) {
		c.Propagate(source, r)
	})
}

// Primary returns the first registered pane, or nil before any registration.
func (c *Coordinator) Primary() Pane {
	if len(c.panes) == 0 {
		return nil
	}
	return c.panes[0]
}

// Propagate applies range r to every pane except source. Invalid ranges and
// events raised during an in-progress propagation are dropped.
func (c *Coordinator) Propagate(source Pane, r model.LogicalRange) {
	if !r.Valid() || c.syncing {
		return
	}
	c.syncing = true
	defer func() { c.syncing = false }()

	for _, p := range c.panes {
		if p == source {
			continue
		}
		p.SetVisibleRange(r)
	}
}

// Reset restores the primary pane to its full-content range, re-enables
// autoscale on its value axis, and propagates the resulting range to every
// other pane.
func (c *Coordinator) Reset() {
	primary := c.Primary()
	if primary == nil {
		return
	}
	primary.FitContent()
	if scalable, ok := primary.(PrimaryPane); ok {
		scalable.EnableAutoScale()
	}
	if r, ok := primary.VisibleRange(); ok {
		c.Propagate(primary, r)
	}
}
