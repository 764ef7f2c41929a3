package dataset

import (
	"fmt"
	"strings"
	"time"

	"ChartStack/internal/model"
)

// DefaultInterval is used when the client does not request one.
const DefaultInterval = "1d"

// AllowedIntervals lists the supported resampling intervals in display order.
var AllowedIntervals = []string{"1d", "3d", "1w"}

// NormalizeInterval validates a requested interval, resolving an empty
// request to the default.
func NormalizeInterval(interval string) (string, error) {
	if interval == "" {
		return DefaultInterval, nil
	}
	normalized := strings.ToLower(strings.TrimSpace(interval))
	for _, allowed := range AllowedIntervals {
		if normalized == allowed {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("unsupported interval %q (allowed: %s)", interval, strings.Join(AllowedIntervals, ", "))
}

// Resample aggregates daily bars into the requested interval. Buckets use
// open=first, high=max, low=min, close=last, volume=sum and are labeled with
// the last trading day inside the bucket. "1d" returns the input unchanged.
func Resample(bars []model.OHLCV, interval string) ([]model.OHLCV, error) {
	if interval == "1d" {
		return bars, nil
	}

	var bucketOf func(t time.Time) int
	switch interval {
	case "3d":
		if len(bars) == 0 {
			return nil, fmt.Errorf("not enough data for interval %s", interval)
		}
		anchor := truncateDay(bars[0].Time)
		bucketOf = func(t time.Time) int {
			return int(truncateDay(t).Sub(anchor).Hours() / 24 / 3)
		}
	case "1w":
		bucketOf = func(t time.Time) int {
			year, week := t.ISOWeek()
			return year*100 + week
		}
	default:
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}

	var out []model.OHLCV
	var current model.OHLCV
	currentBucket := 0
	started := false

	for _, bar := range bars {
		bucket := bucketOf(bar.Time)
		if !started {
			current, currentBucket, started = bar, bucket, true
			continue
		}
		if bucket != currentBucket {
			out = append(out, current)
			current, currentBucket = bar, bucket
			continue
		}
		if bar.High > current.High {
			current.High = bar.High
		}
		if bar.Low < current.Low {
			current.Low = bar.Low
		}
		current.Close = bar.Close
		current.Volume += bar.Volume
		current.Time = bar.Time // label by last trading day in bucket
	}
	if started {
		out = append(out, current)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("not enough data for interval %s", interval)
	}
	return out, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
