package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarSeries_Last(t *testing.T) {
	_, ok := BarSeries{}.Last()
	assert.False(t, ok)

	series := BarSeries{
		{Time: time.Date(2024, 7, 5, 13, 30, 0, 0, time.UTC), Close: 1},
		{Time: time.Date(2024, 7, 5, 13, 31, 0, 0, time.UTC), Close: 2},
	}
	last, ok := series.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, last.Close)
}

func TestBarSeries_CoversDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// one bar at 21:00 ET on July 5 = 01:00 UTC on July 6
	series := BarSeries{
		{Time: time.Date(2024, 7, 6, 1, 0, 0, 0, time.UTC), Close: 1},
	}

	tests := []struct {
		name string
		ref  time.Time
		loc  *time.Location
		want bool
	}{
		{
			name: "market-local day that holds the bar",
			ref:  time.Date(2024, 7, 5, 16, 0, 0, 0, time.UTC),
			loc:  ny,
			want: true,
		},
		{
			name: "next market-local day",
			ref:  time.Date(2024, 7, 6, 12, 0, 0, 0, time.UTC),
			loc:  ny,
			want: false,
		},
		{
			// in UTC the same bar falls on July 6, not July 5
			name: "UTC day boundary differs",
			ref:  time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: false,
		},
		{
			name: "UTC day that holds the bar",
			ref:  time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC),
			loc:  time.UTC,
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, series.CoversDay(tt.ref, tt.loc))
		})
	}
}

func TestBarSeries_CoversDayEmpty(t *testing.T) {
	assert.False(t, BarSeries{}.CoversDay(time.Now(), time.UTC))
}

func TestValidSpeed(t *testing.T) {
	for _, s := range Speeds {
		assert.True(t, ValidSpeed(s), "speed %v", s)
	}
	assert.False(t, ValidSpeed(0.3))
	assert.False(t, ValidSpeed(0))
	assert.False(t, ValidSpeed(-1))
}

func TestParseSessionFilter(t *testing.T) {
	got, err := ParseSessionFilter("REG")
	require.NoError(t, err)
	assert.Equal(t, SessionRegular, got)

	got, err = ParseSessionFilter("ALL")
	require.NoError(t, err)
	assert.Equal(t, SessionExtended, got)

	_, err = ParseSessionFilter("reg")
	assert.Error(t, err)
}

func TestParseViewMode(t *testing.T) {
	got, err := ParseViewMode("replay")
	require.NoError(t, err)
	assert.Equal(t, ModeReplay, got)

	_, err = ParseViewMode("playback")
	assert.Error(t, err)
}
