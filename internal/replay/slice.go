package replay

import (
	"sort"
	"time"

	"marketrewind/internal/domain"
)

// SliceAt returns the prefix of series whose bar times (bucket starts)
// are at or before cutoff. A bucket is visible once it has started; to
// avoid leaking the not-yet-accumulated contents of an in-progress
// coarse bucket, callers slice the raw 1-minute series first and
// aggregate only the visible prefix.
//
// The result aliases the input; neither is ever mutated. A cutoff before
// the first bar yields an empty series, not an error.
func SliceAt(series domain.BarSeries, cutoff time.Time) domain.BarSeries {
	n := sort.Search(len(series), func(i int) bool {
		return series[i].Time.After(cutoff)
	})
	return series[:n:n]
}
