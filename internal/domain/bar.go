package domain

import (
	"sort"
	"time"
)

// Color classifies a bar for display, derived from its final OHLC after
// aggregation. Ties (open == close) classify as up.
type Color string

const (
	ColorUp   Color = "up"
	ColorDown Color = "down"
)

// Bar represents a single OHLCV record for one time bucket.
// Time is the bucket's start instant, canonicalized to UTC.
// Upstream price invariants (high >= open/close >= low) are not enforced
// here; garbage in is passed through.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Color  Color // set by aggregation, empty on raw store rows
}

// BarSeries is an ordered sequence of bars, ascending by Time.
// A series is never mutated after creation; every transform produces a
// new series.
type BarSeries []Bar

// Last returns the final bar of the series, or false when empty.
func (s BarSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// CoversDay reports whether the series contains at least one bar falling
// on the civil day of ref in loc.
func (s BarSeries) CoversDay(ref time.Time, loc *time.Location) bool {
	y, m, d := ref.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	i := sort.Search(len(s), func(i int) bool { return !s[i].Time.Before(start) })
	return i < len(s) && s[i].Time.Before(end)
}
