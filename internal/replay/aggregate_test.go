package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketrewind/internal/domain"
)

func nyLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// minuteBars builds a 1-minute series starting at start with the given
// open/high/low/close/volume columns.
func minuteBars(start time.Time, opens, highs, lows, closes, volumes []float64) domain.BarSeries {
	series := make(domain.BarSeries, len(opens))
	for i := range opens {
		series[i] = domain.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   opens[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return series
}

func TestAggregate_FiveMinuteReduction(t *testing.T) {
	ny := nyLocation(t)
	// 09:30 ET on a regular session day.
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	series := minuteBars(start,
		[]float64{10, 10.5, 11, 12, 13},
		[]float64{10.5, 11.2, 12.1, 13.3, 14.5},
		[]float64{9.8, 10.4, 10.9, 11.8, 12.9},
		[]float64{10, 11, 12, 13, 14},
		[]float64{100, 200, 300, 400, 500},
	)

	out := Aggregate(series, domain.TF5Min, ny)
	require.Len(t, out, 1)

	bar := out[0]
	assert.True(t, bar.Time.Equal(start), "bucket start should be the first minute")
	assert.Equal(t, 10.0, bar.Open, "open is the first bar's open")
	assert.Equal(t, 14.0, bar.Close, "close is the last bar's close")
	assert.Equal(t, 14.5, bar.High, "high is the max of highs")
	assert.Equal(t, 9.8, bar.Low, "low is the min of lows")
	assert.Equal(t, 1500.0, bar.Volume, "volume is the sum")
	assert.Equal(t, domain.ColorUp, bar.Color)
}

func TestAggregate_GapsStayGaps(t *testing.T) {
	ny := nyLocation(t)
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	series := domain.BarSeries{
		{Time: start, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
		{Time: start.Add(1 * time.Minute), Open: 2, High: 2, Low: 2, Close: 2, Volume: 1},
		// ten-minute hole: no bars for the 09:35 bucket
		{Time: start.Add(10 * time.Minute), Open: 3, High: 3, Low: 3, Close: 3, Volume: 1},
		{Time: start.Add(11 * time.Minute), Open: 4, High: 4, Low: 4, Close: 4, Volume: 1},
	}

	out := Aggregate(series, domain.TF5Min, ny)
	require.Len(t, out, 2, "empty buckets must be dropped, not zero-filled")
	assert.True(t, out[0].Time.Equal(start))
	assert.True(t, out[1].Time.Equal(start.Add(10*time.Minute)))
}

func TestAggregate_ColorClassification(t *testing.T) {
	ny := nyLocation(t)
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	tests := []struct {
		name  string
		open  float64
		close float64
		want  domain.Color
	}{
		{name: "up candle", open: 10, close: 11, want: domain.ColorUp},
		{name: "down candle", open: 11, close: 10, want: domain.ColorDown},
		{name: "tie classifies up", open: 10, close: 10, want: domain.ColorUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := domain.BarSeries{{Time: start, Open: tt.open, High: 12, Low: 9, Close: tt.close, Volume: 1}}
			out := Aggregate(series, domain.TF1Min, ny)
			require.Len(t, out, 1)
			assert.Equal(t, tt.want, out[0].Color)
		})
	}
}

func TestAggregate_DayBucketsFollowMarketCalendar(t *testing.T) {
	ny := nyLocation(t)
	// 19:30 ET on Jan 2 is 00:30 UTC on Jan 3: the bar must still land in
	// the Jan 2 calendar-day bucket.
	regular := time.Date(2024, 1, 2, 9, 30, 0, 0, ny).UTC()
	evening := time.Date(2024, 1, 2, 19, 30, 0, 0, ny).UTC()
	nextDay := time.Date(2024, 1, 3, 9, 30, 0, 0, ny).UTC()
	series := domain.BarSeries{
		{Time: regular, Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
		{Time: evening, Open: 2, High: 3, Low: 2, Close: 3, Volume: 10},
		{Time: nextDay, Open: 3, High: 4, Low: 3, Close: 4, Volume: 10},
	}

	out := Aggregate(series, domain.TF1Day, ny)
	require.Len(t, out, 2)

	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, ny).UTC()
	jan3 := time.Date(2024, 1, 3, 0, 0, 0, 0, ny).UTC()
	assert.True(t, out[0].Time.Equal(jan2))
	assert.Equal(t, 3.0, out[0].Close, "evening bar closes the Jan 2 candle")
	assert.Equal(t, 20.0, out[0].Volume)
	assert.True(t, out[1].Time.Equal(jan3))
}

func TestAggregate_NativeResolutionRoundTrip(t *testing.T) {
	ny := nyLocation(t)
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	series := minuteBars(start,
		[]float64{10, 11, 12},
		[]float64{10.5, 11.5, 12.5},
		[]float64{9.5, 10.5, 11.5},
		[]float64{10.2, 11.2, 12.2},
		[]float64{1, 2, 3},
	)

	out := Aggregate(series, domain.TF1Min, ny)
	require.Len(t, out, len(series))
	for i := range series {
		assert.True(t, out[i].Time.Equal(series[i].Time))
		assert.Equal(t, series[i].Open, out[i].Open)
		assert.Equal(t, series[i].High, out[i].High)
		assert.Equal(t, series[i].Low, out[i].Low)
		assert.Equal(t, series[i].Close, out[i].Close)
		assert.Equal(t, series[i].Volume, out[i].Volume)
		assert.NotEmpty(t, out[i].Color, "round trip adds the color field")
	}
}

func TestAggregate_IdempotentOnAlignedSeries(t *testing.T) {
	ny := nyLocation(t)
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	series := minuteBars(start,
		[]float64{10, 10.5, 11, 12, 13, 14, 13.5, 13, 12.5, 12},
		[]float64{10.5, 11.2, 12.1, 13.3, 14.5, 14.2, 13.8, 13.1, 12.8, 12.3},
		[]float64{9.8, 10.4, 10.9, 11.8, 12.9, 13.2, 12.9, 12.5, 12.1, 11.8},
		[]float64{10, 11, 12, 13, 14, 13.5, 13, 12.5, 12, 11.9},
		[]float64{100, 200, 300, 400, 500, 100, 200, 300, 400, 500},
	)

	once := Aggregate(series, domain.TF5Min, ny)
	twice := Aggregate(once, domain.TF5Min, ny)
	assert.Equal(t, once, twice, "re-aggregating aligned buckets is a no-op")
}

func TestAggregate_Deterministic(t *testing.T) {
	ny := nyLocation(t)
	start := time.Date(2024, 3, 15, 9, 30, 0, 0, ny).UTC()
	series := minuteBars(start,
		[]float64{10, 10.5, 11},
		[]float64{10.5, 11.2, 12.1},
		[]float64{9.8, 10.4, 10.9},
		[]float64{10, 11, 12},
		[]float64{100, 200, 300},
	)

	a := Aggregate(series, domain.TF5Min, ny)
	b := Aggregate(series, domain.TF5Min, ny)
	assert.Equal(t, a, b)
	// the input series must survive untouched
	assert.Equal(t, 10.5, series[1].Open)
	assert.Empty(t, series[0].Color)
}

func TestAggregate_Empty(t *testing.T) {
	ny := nyLocation(t)
	out := Aggregate(domain.BarSeries{}, domain.TF5Min, ny)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
