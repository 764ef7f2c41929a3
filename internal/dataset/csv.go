package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"ChartStack/internal/model"
)

var csvTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads an OHLCV dataset from a CSV file with a header row of
// date,open,high,low,close,volume. Rows with an unparseable date or price
// are dropped; the result is sorted ascending by date.
func LoadCSV(path string) ([]model.OHLCV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s missing column %q", path, required)
		}
	}

	var bars []model.OHLCV
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		bar, ok := parseRow(record, cols)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func parseRow(record []string, cols map[string]int) (model.OHLCV, bool) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var when time.Time
	var err error
	for _, layout := range csvTimeLayouts {
		when, err = time.Parse(layout, field("date"))
		if err == nil {
			break
		}
	}
	if err != nil {
		return model.OHLCV{}, false
	}

	nums := make(map[string]float64, 5)
	for _, name := range []string{"open", "high", "low", "close"} {
		v, err := strconv.ParseFloat(field(name), 64)
		if err != nil {
			return model.OHLCV{}, false
		}
		nums[name] = v
	}
	// Missing volume coerces to 0 instead of dropping the bar
	volume, err := strconv.ParseFloat(field("volume"), 64)
	if err != nil {
		volume = 0
	}

	return model.OHLCV{
		Time:   when,
		Open:   nums["open"],
		High:   nums["high"],
		Low:    nums["low"],
		Close:  nums["close"],
		Volume: volume,
	}, true
}
