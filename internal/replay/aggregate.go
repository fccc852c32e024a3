package replay

import (
	"time"

	"marketrewind/internal/domain"
)

// Aggregate resamples an ascending 1-minute series into buckets of width
// tf. Per bucket: open = first bar's open, high = max, low = min,
// close = last bar's close, volume = sum. Buckets with no contributing
// bars are dropped; gaps in input stay gaps in output. The output is
// ascending with one row per non-empty bucket, bar Time = bucket start,
// and a display color derived from the final OHLC.
//
// Pure function: identical input and timeframe always yield identical
// output, and the input series is never mutated.
func Aggregate(series domain.BarSeries, tf domain.Timeframe, market *time.Location) domain.BarSeries {
	out := make(domain.BarSeries, 0, len(series))
	if len(series) == 0 {
		return out
	}

	var cur domain.Bar
	var curStart time.Time
	have := false
	for _, b := range series {
		start := BucketStart(b.Time, tf, market)
		if !have || !start.Equal(curStart) {
			if have {
				out = append(out, finishBucket(cur))
			}
			curStart = start
			cur = domain.Bar{
				Time:   start,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			}
			have = true
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	return append(out, finishBucket(cur))
}

// finishBucket derives the display color from the bucket's final OHLC.
// Ties classify as up.
func finishBucket(b domain.Bar) domain.Bar {
	if b.Open > b.Close {
		b.Color = domain.ColorDown
	} else {
		b.Color = domain.ColorUp
	}
	return b
}

// BucketStart returns the start instant of the tf bucket containing t.
// Minute and hour buckets align to the Unix epoch; day buckets follow
// calendar-day boundaries in the market timezone.
func BucketStart(t time.Time, tf domain.Timeframe, market *time.Location) time.Time {
	if tf.IsDaily() {
		y, m, d := t.In(market).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, market).UTC()
	}
	return t.UTC().Truncate(tf.Duration())
}
