package view

import "ChartStack/internal/model"

// Pane is one independently rendered chart surface sharing the logical time
// axis with its peers. Implementations wrap the external charting library.
//
// Implementations must fire the OnRangeChange callbacks for every visible
// range change, including changes applied through SetVisibleRange; the
// coordinator relies on that to keep panes converged and guards against the
// resulting re-entrancy itself.
type Pane interface {
	// VisibleRange returns the current visible logical range. ok is false
	// while the pane has no data loaded.
	VisibleRange() (r model.LogicalRange, ok bool)

	// SetVisibleRange applies a new visible logical range.
	SetVisibleRange(r model.LogicalRange)

	// LogicalAt converts a pixel x-coordinate within the pane to a logical
	// coordinate. ok is false when the coordinate cannot be resolved.
	LogicalAt(pixel float64) (logical float64, ok bool)

	// OnRangeChange registers a range-change callback.
	OnRangeChange(fn func(model.LogicalRange))

	// FitContent resets the pane to its default full-content range.
	FitContent()
}

// PrimaryPane is the price pane; it additionally exposes value-axis
// autoscale so Reset can restore it.
type PrimaryPane interface {
	Pane
	EnableAutoScale()
}
