package model

// Point is a single value on a line or histogram series.
type Point struct {
	Time  Time    `json:"time"`
	Value float64 `json:"value"`
}

// Candle is a single OHLC bar on a candlestick series.
type Candle struct {
	Time  Time    `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// LogicalRange is a [From, To] interval over the chart's abstract index space.
// It is the unit of pan/zoom synchronization; neither pixels nor raw time.
type LogicalRange struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Width returns To - From.
func (r LogicalRange) Width() float64 { return r.To - r.From }

// Valid reports whether the range covers a positive width.
func (r LogicalRange) Valid() bool { return r.To > r.From }

// ChartPayload is the full response body of /api/candles.
type ChartPayload struct {
	Candles []Candle    `json:"candles"`
	Volumes []Point     `json:"volumes"`
	RSI     []Point     `json:"rsi"`
	OBV     []Point     `json:"obv"`
	CVD     *CVDPayload `json:"cvd"`
}

// CVDPayload carries per-role cumulative flow series plus the ledger table.
type CVDPayload struct {
	Series map[string][]Point `json:"series"`
	Table  FlowTable          `json:"table"`
}

// FlowTable is the tabular ledger view of accumulated investor flow.
type FlowTable struct {
	Columns []FlowColumn `json:"columns"`
	Rows    []FlowRow    `json:"rows"`
}

// FlowColumn names one ledger column.
type FlowColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FlowRow is one date's snapshot of every role's running total, keyed by the
// column key plus a "date" entry.
type FlowRow map[string]any
