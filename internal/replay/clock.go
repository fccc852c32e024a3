package replay

import "time"

// Clock is the shared playhead: a single timezone-aware instant
// representing "now" in replay, driving every view in a workspace.
// All arithmetic happens in UTC. The anchor time-of-day (e.g. the 09:29
// pre-open) is defined in the market's local zone and converted per
// date, which keeps daylight-saving transitions exact.
//
// Clock is not safe for concurrent mutation; the workspace service is
// its single writer.
type Clock struct {
	now        time.Time // UTC
	anchorDate time.Time // midnight of the anchor day, market zone
	market     *time.Location
	anchorHour int
	anchorMin  int
}

// NewClock creates a playhead anchored at the given local time-of-day.
// The instant is zero until the first SeekToDate.
func NewClock(market *time.Location, anchorHour, anchorMin int) *Clock {
	return &Clock{
		market:     market,
		anchorHour: anchorHour,
		anchorMin:  anchorMin,
	}
}

// Now returns the current playhead instant in UTC.
func (c *Clock) Now() time.Time { return c.now }

// AnchorDate returns midnight of the current anchor day in the market
// zone. Zero until the first SeekToDate.
func (c *Clock) AnchorDate() time.Time { return c.anchorDate }

// Seeked reports whether the clock has been positioned on a date yet.
func (c *Clock) Seeked() bool { return !c.anchorDate.IsZero() }

// SeekToDate positions the playhead at the anchor time-of-day on the
// civil day of ref (interpreted in the market zone).
func (c *Clock) SeekToDate(ref time.Time) {
	y, m, d := ref.In(c.market).Date()
	c.anchorDate = time.Date(y, m, d, 0, 0, 0, 0, c.market)
	c.now = c.anchorInstant()
}

// Reset snaps the playhead back to the anchor time on the current
// anchor date.
func (c *Clock) Reset() {
	if c.anchorDate.IsZero() {
		return
	}
	c.now = c.anchorInstant()
}

// Step moves the playhead by delta in the given direction. No bounds
// checking against available data: out-of-range playheads simply yield
// empty or partial slices downstream.
func (c *Clock) Step(delta time.Duration, forward bool) {
	if !forward {
		delta = -delta
	}
	c.Advance(delta)
}

// Advance moves the playhead forward by delta.
func (c *Clock) Advance(delta time.Duration) {
	c.now = c.now.Add(delta)
}

func (c *Clock) anchorInstant() time.Time {
	y, m, d := c.anchorDate.Date()
	return time.Date(y, m, d, c.anchorHour, c.anchorMin, 0, 0, c.market).UTC()
}
