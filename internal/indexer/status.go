package indexer

import (
	"fmt"
	"math"

	"ChartStack/internal/model"
)

// Placeholder is rendered for any field whose point is missing or NaN.
const Placeholder = "-"

// Status is the formatted per-field view shown in the hover status line.
// Every field is already a display string; missing data carries Placeholder.
type Status struct {
	Key        model.TimeKey
	Open       string
	High       string
	Low        string
	Close      string
	Volume     string
	Oscillator string
	Cumulative string
}

// StatusView derives the hover status line from up to four independent
// indexes sharing one TimeKey domain. Each index is queried on its own, so a
// key missing from one series never blanks the others.
type StatusView struct {
	candles    *CandleIndex
	volume     *PointIndex
	oscillator *PointIndex
	cumulative *PointIndex
	lastKey    model.TimeKey
}

// NewStatusView builds the four indexes from freshly loaded series.
func NewStatusView(candles []model.Candle, volumes, oscillator, cumulative []model.Point) *StatusView {
	view := &StatusView{
		candles:    BuildCandleIndex(candles),
		volume:     BuildPointIndex(volumes),
		oscillator: BuildPointIndex(oscillator),
		cumulative: BuildPointIndex(cumulative),
	}
	if len(candles) > 0 {
		view.lastKey = candles[len(candles)-1].Time.Key()
	}
	return view
}

// Status formats the values at the given key. An empty key means the pointer
// left the chart: the most recently requested key (or the newest candle) is
// used instead.
func (v *StatusView) Status(key model.TimeKey) Status {
	if key == "" {
		key = v.lastKey
	} else {
		v.lastKey = key
	}

	st := Status{
		Key:        key,
		Open:       Placeholder,
		High:       Placeholder,
		Low:        Placeholder,
		Close:      Placeholder,
		Volume:     Placeholder,
		Oscillator: Placeholder,
		Cumulative: Placeholder,
	}
	if key == "" {
		return st
	}

	if c, ok := v.candles.Lookup(key); ok {
		st.Open = FormatFixed(c.Open)
		st.High = FormatFixed(c.High)
		st.Low = FormatFixed(c.Low)
		st.Close = FormatFixed(c.Close)
	}
	if p, ok := v.volume.Lookup(key); ok {
		st.Volume = FormatCompact(p.Value)
	}
	if p, ok := v.oscillator.Lookup(key); ok {
		st.Oscillator = FormatFixed(p.Value)
	}
	if p, ok := v.cumulative.Lookup(key); ok {
		st.Cumulative = FormatCompact(p.Value)
	}
	return st
}

// FormatFixed renders a price-like value with two decimals.
func FormatFixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatCompact renders a volume-like value with a magnitude suffix.
func FormatCompact(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
