package calculator

import "ChartStack/internal/model"

// CalculateOBVSeries computes the On-Balance Volume for every bar.
// OBV starts at 0 on the first bar and accumulates volume with the sign of
// each close-to-close change; equal closes carry the previous value forward.
func CalculateOBVSeries(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}
