package indexer

import (
	"math"
	"testing"

	"ChartStack/internal/model"
)

func day(y, m, d int) model.Time { return model.Time{Year: y, Month: m, Day: d} }

func TestPointIndex_LookupMissIsSafe(t *testing.T) {
	ix := BuildPointIndex([]model.Point{{Time: day(2024, 1, 1), Value: 10}})

	if _, ok := ix.Lookup("2024-01-01"); !ok {
		t.Error("known key not found")
	}
	if _, ok := ix.Lookup("1999-12-31"); ok {
		t.Error("unknown key reported as found")
	}
	if _, ok := ix.Lookup(""); ok {
		t.Error("empty key reported as found")
	}
}

func TestStatusView_IndependentIndexes(t *testing.T) {
	when := day(2024, 1, 2)
	view := NewStatusView(
		[]model.Candle{{Time: when, Open: 1.5, High: 2, Low: 1, Close: 1.75}},
		[]model.Point{{Time: when, Value: 2500000}},
		nil, // oscillator series missing entirely
		[]model.Point{{Time: when, Value: 1234567890}},
	)

	st := view.Status("2024-01-02")
	if st.Open != "1.50" || st.Close != "1.75" {
		t.Errorf("candle fields = %q/%q", st.Open, st.Close)
	}
	if st.Volume != "2.50M" {
		t.Errorf("volume = %q", st.Volume)
	}
	// A missing series yields the placeholder without blanking the rest.
	if st.Oscillator != Placeholder {
		t.Errorf("oscillator = %q, want placeholder", st.Oscillator)
	}
	if st.Cumulative != "1.23B" {
		t.Errorf("cumulative = %q", st.Cumulative)
	}
}

func TestStatusView_LastKeyFallback(t *testing.T) {
	first := day(2024, 1, 1)
	second := day(2024, 1, 2)
	view := NewStatusView(
		[]model.Candle{
			{Time: first, Close: 10},
			{Time: second, Close: 20},
		},
		nil, nil, nil,
	)

	// No key requested yet: the newest candle is used.
	if st := view.Status(""); st.Close != "20.00" {
		t.Errorf("initial fallback close = %q", st.Close)
	}

	view.Status("2024-01-01")
	// Pointer left the chart: the last requested key wins.
	if st := view.Status(""); st.Close != "10.00" {
		t.Errorf("fallback close = %q, want the last seen key's value", st.Close)
	}
}

func TestStatusView_EmptyView(t *testing.T) {
	view := NewStatusView(nil, nil, nil, nil)
	st := view.Status("")
	for name, field := range map[string]string{
		"open": st.Open, "close": st.Close, "volume": st.Volume,
		"oscillator": st.Oscillator, "cumulative": st.Cumulative,
	} {
		if field != Placeholder {
			t.Errorf("%s = %q, want placeholder", name, field)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1500, "1.50K"},
		{-1500, "-1.50K"},
		{2500000, "2.50M"},
		{3200000000, "3.20B"},
		{1400000000000, "1.40T"},
		{math.NaN(), Placeholder},
		{math.Inf(1), Placeholder},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFixed(t *testing.T) {
	if got := FormatFixed(55.555); got != "55.56" {
		t.Errorf("FormatFixed = %q", got)
	}
	if got := FormatFixed(math.NaN()); got != Placeholder {
		t.Errorf("FormatFixed(NaN) = %q, want placeholder", got)
	}
}
