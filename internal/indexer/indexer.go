package indexer

import (
	"ChartStack/internal/model"
)

// PointIndex provides O(1) TimeKey lookup over a value series.
type PointIndex struct {
	points map[model.TimeKey]model.Point
}

// BuildPointIndex indexes a series by TimeKey. Within a single load each
// series holds at most one point per key; a later duplicate wins.
func BuildPointIndex(series []model.Point) *PointIndex {
	points := make(map[model.TimeKey]model.Point, len(series))
	for _, p := range series {
		points[p.Time.Key()] = p
	}
	return &PointIndex{points: points}
}

// Lookup returns the point for a key. The second result is false on a miss;
// a miss is never an error.
func (ix *PointIndex) Lookup(key model.TimeKey) (model.Point, bool) {
	p, ok := ix.points[key]
	return p, ok
}

// Len returns the number of indexed points.
func (ix *PointIndex) Len() int { return len(ix.points) }

// CandleIndex provides O(1) TimeKey lookup over an OHLC series.
type CandleIndex struct {
	candles map[model.TimeKey]model.Candle
}

// BuildCandleIndex indexes candles by TimeKey.
func BuildCandleIndex(series []model.Candle) *CandleIndex {
	candles := make(map[model.TimeKey]model.Candle, len(series))
	for _, c := range series {
		candles[c.Time.Key()] = c
	}
	return &CandleIndex{candles: candles}
}

// Lookup returns the candle for a key, with ok=false on a miss.
func (ix *CandleIndex) Lookup(key model.TimeKey) (model.Candle, bool) {
	c, ok := ix.candles[key]
	return c, ok
}

// Len returns the number of indexed candles.
func (ix *CandleIndex) Len() int { return len(ix.candles) }
