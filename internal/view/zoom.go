package view

import (
	"math"

	"ChartStack/internal/model"
)

// ZoomParams holds the zoom policy knobs. The defaults mirror the tuned
// interactive feel; none of them is a hard invariant.
type ZoomParams struct {
	// Intensity is the relative width change per wheel step.
	Intensity float64
	// MinWidth bounds zoom-in against a degenerate near-zero window.
	MinWidth float64
	// MaxWidthScale and MaxWidthFloor bound zoom-out: the cap is
	// max(current width * MaxWidthScale, MaxWidthFloor).
	MaxWidthScale float64
	MaxWidthFloor float64
	// CorrectionEpsilon is the anchor drift tolerated before the deferred
	// correction pass translates the applied range.
	CorrectionEpsilon float64
}

// DefaultZoomParams returns the standard tuning.
func DefaultZoomParams() ZoomParams {
	return ZoomParams{
		Intensity:         0.22,
		MinWidth:          8,
		MaxWidthScale:     4,
		MaxWidthFloor:     1200,
		CorrectionEpsilon: 1e-3,
	}
}

// FrameScheduler schedules a callback for the next render frame. The
// callback is non-cancellable and must tolerate the live state having
// changed by the time it fires.
type FrameScheduler interface {
	Schedule(fn func())
}

// FrameFunc adapts a plain function to FrameScheduler.
type FrameFunc func(fn func())

// Schedule implements FrameScheduler.
func (f FrameFunc) Schedule(fn func()) { f(fn) }

// WheelEvent is the raw wheel input over a pane. Native wheel handling on
// the pointer surface must be suppressed while the engine is active.
type WheelEvent struct {
	// DeltaY's sign selects the direction; scrolling up (negative) zooms in.
	DeltaY float64
	// PointerX is the pixel x-coordinate of the pointer, valid only when
	// HasPointer is set.
	PointerX   float64
	HasPointer bool
}

// ZoomEngine converts wheel input into a new logical viewport keeping the
// logical point under the pointer visually fixed.
type ZoomEngine struct {
	params ZoomParams
	frames FrameScheduler
}

// NewZoomEngine creates a ZoomEngine. A nil scheduler disables the deferred
// correction pass.
func NewZoomEngine(params ZoomParams, frames FrameScheduler) *ZoomEngine {
	return &ZoomEngine{params: params, frames: frames}
}

// HandleWheel applies one wheel step to the pane. hover is the last known
// crosshair logical position, used when the pointer pixel cannot be
// resolved; with no pointer context at all the range midpoint anchors the
// zoom. Returns false when the pane has no usable range.
func (z *ZoomEngine) HandleWheel(pane Pane, evt WheelEvent, hover float64, hasHover bool) bool {
	current, ok := pane.VisibleRange()
	if !ok || !current.Valid() {
		return false
	}
	width := current.Width()

	factor := 1 + z.params.Intensity
	if evt.DeltaY < 0 {
		factor = 1 - z.params.Intensity
	}
	maxWidth := math.Max(width*z.params.MaxWidthScale, z.params.MaxWidthFloor)
	newWidth := clamp(width*factor, z.params.MinWidth, maxWidth)

	anchor := z.resolveAnchor(pane, evt, current, hover, hasHover)

	ratio := 0.5
	if width > 0 {
		ratio = clamp(anchor-current.From, 0, width) / width
	}

	newFrom := anchor - newWidth*ratio
	pane.SetVisibleRange(model.LogicalRange{From: newFrom, To: newFrom + newWidth})

	// The applied range can shift once the axis relabels, which a one-shot
	// transform cannot predict. Re-check against the live pane next frame.
	if evt.HasPointer && z.frames != nil {
		pixel := evt.PointerX
		z.frames.Schedule(func() {
			z.correct(pane, pixel, anchor)
		})
	}
	return true
}

// resolveAnchor picks the logical anchor in priority order: pointer pixel,
// last hover position, range midpoint.
func (z *ZoomEngine) resolveAnchor(pane Pane, evt WheelEvent, current model.LogicalRange, hover float64, hasHover bool) float64 {
	if evt.HasPointer {
		if logical, ok := pane.LogicalAt(evt.PointerX); ok {
			return logical
		}
	}
	if hasHover {
		return hover
	}
	return current.From + current.Width()/2
}

// correct re-reads the logical coordinate at the original pointer pixel and
// translates the range when it drifted past the tolerance. It reads only
// live state, so a dataset change in the interim degrades to a no-op.
func (z *ZoomEngine) correct(pane Pane, pixel, anchor float64) {
	applied, ok := pane.VisibleRange()
	if !ok || !applied.Valid() {
		return
	}
	actual, ok := pane.LogicalAt(pixel)
	if !ok {
		return
	}
	drift := actual - anchor
	if math.Abs(drift) <= z.params.CorrectionEpsilon {
		return
	}
	pane.SetVisibleRange(model.LogicalRange{
		From: applied.From - drift,
		To:   applied.To - drift,
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
