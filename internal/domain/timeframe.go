package domain

import (
	"fmt"
	"time"
)

// Timeframe is the bucket width used for aggregation and, implicitly, a
// playback step-size candidate. The set is fixed.
type Timeframe string

const (
	TF1Min  Timeframe = "1m"
	TF5Min  Timeframe = "5m"
	TF15Min Timeframe = "15m"
	TF30Min Timeframe = "30m"
	TF1Hour Timeframe = "1h"
	TF1Day  Timeframe = "1d"
)

// Timeframes lists the supported widths in ascending order.
var Timeframes = []Timeframe{TF1Min, TF5Min, TF15Min, TF30Min, TF1Hour, TF1Day}

// Duration returns the fixed width of the timeframe. Day buckets follow
// calendar-day boundaries, not 24h multiples; the 24h value here is used
// only for step-size ordering.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TF1Min:
		return time.Minute
	case TF5Min:
		return 5 * time.Minute
	case TF15Min:
		return 15 * time.Minute
	case TF30Min:
		return 30 * time.Minute
	case TF1Hour:
		return time.Hour
	case TF1Day:
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// IsDaily reports whether the timeframe buckets by calendar day.
func (tf Timeframe) IsDaily() bool { return tf == TF1Day }

func (tf Timeframe) String() string { return string(tf) }

// ParseTimeframe converts a string like "5m" or "1d" into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	for _, tf := range Timeframes {
		if s == string(tf) {
			return tf, nil
		}
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}
