package model

import "time"

// OHLCV represents a single candlestick bar as stored in a dataset CSV.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// DatasetSummary describes one dataset for the catalog listing.
type DatasetSummary struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Range   string `json:"range"`
	Rows    int    `json:"rows"`
	Default bool   `json:"default"`
	CVD     bool   `json:"cvd"`
}
