package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimeKey is the canonical YYYY-MM-DD date string used to join points across
// independently loaded series. Lexicographic order equals chronological order.
type TimeKey = string

// Time is a calendar day on the chart's time axis. On the wire it may appear
// as an ISO date string, a count of seconds since epoch, or a
// {year, month, day} object; all three canonicalize to the same TimeKey.
type Time struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewTime builds a Time from a time.Time, dropping the clock part.
func NewTime(t time.Time) Time {
	return Time{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Key returns the canonical TimeKey for this day.
func (t Time) Key() TimeKey {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
}

// IsZero reports whether the Time is unset.
func (t Time) IsZero() bool {
	return t.Year == 0 && t.Month == 0 && t.Day == 0
}

// UnmarshalJSON accepts all three wire encodings of a chart time.
func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty time value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return fmt.Errorf("parse time %q: %w", s, err)
		}
		*t = NewTime(parsed)
	case '{':
		type plain Time
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*t = Time(p)
	default:
		secs, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("parse epoch time %q: %w", data, err)
		}
		*t = NewTime(time.Unix(secs, 0).UTC())
	}
	return nil
}

// ParseTimeKey converts a TimeKey back into a Time. Malformed keys yield an
// error rather than a partial value.
func ParseTimeKey(key TimeKey) (Time, error) {
	parsed, err := time.Parse("2006-01-02", key)
	if err != nil {
		return Time{}, fmt.Errorf("parse time key %q: %w", key, err)
	}
	return NewTime(parsed), nil
}
