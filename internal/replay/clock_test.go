package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_SeekToDateUsesMarketLocalAnchor(t *testing.T) {
	ny := nyLocation(t)
	clock := NewClock(ny, 9, 29)
	require.False(t, clock.Seeked())

	tests := []struct {
		name    string
		date    time.Time
		wantUTC time.Time
	}{
		{
			// EST: 09:29 ET = 14:29 UTC
			name:    "winter (EST)",
			date:    time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			wantUTC: time.Date(2024, 1, 5, 14, 29, 0, 0, time.UTC),
		},
		{
			// EDT: 09:29 ET = 13:29 UTC
			name:    "summer (EDT)",
			date:    time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC),
			wantUTC: time.Date(2024, 7, 5, 13, 29, 0, 0, time.UTC),
		},
		{
			// the spring-forward day itself: offset is already EDT at 09:29
			name:    "DST transition day",
			date:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			wantUTC: time.Date(2024, 3, 10, 13, 29, 0, 0, time.UTC),
		},
		{
			// a UTC-midnight instant is the previous civil day in New York
			name:    "UTC midnight resolves to the prior market day",
			date:    time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
			wantUTC: time.Date(2024, 7, 4, 13, 29, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.SeekToDate(tt.date)
			assert.True(t, clock.Now().Equal(tt.wantUTC), "got %s want %s", clock.Now(), tt.wantUTC)
			assert.True(t, clock.Seeked())
		})
	}
}

func TestClock_StepAndAdvance(t *testing.T) {
	ny := nyLocation(t)
	clock := NewClock(ny, 9, 29)
	clock.SeekToDate(time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC))
	anchor := clock.Now()

	clock.Step(5*time.Minute, true)
	assert.True(t, clock.Now().Equal(anchor.Add(5*time.Minute)))

	clock.Step(time.Minute, false)
	assert.True(t, clock.Now().Equal(anchor.Add(4*time.Minute)))

	clock.Advance(30 * time.Second)
	assert.True(t, clock.Now().Equal(anchor.Add(4*time.Minute+30*time.Second)))
}

func TestClock_ResetReturnsToAnchor(t *testing.T) {
	ny := nyLocation(t)
	clock := NewClock(ny, 9, 29)
	clock.SeekToDate(time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC))
	anchor := clock.Now()

	clock.Advance(3 * time.Hour)
	require.False(t, clock.Now().Equal(anchor))

	clock.Reset()
	assert.True(t, clock.Now().Equal(anchor))
}

func TestClock_ResetBeforeSeekIsNoOp(t *testing.T) {
	ny := nyLocation(t)
	clock := NewClock(ny, 9, 29)
	clock.Reset()
	assert.True(t, clock.Now().IsZero())
}

func TestClock_NoBoundsClamping(t *testing.T) {
	ny := nyLocation(t)
	clock := NewClock(ny, 9, 29)
	clock.SeekToDate(time.Date(2024, 7, 5, 12, 0, 0, 0, time.UTC))
	anchor := clock.Now()

	// stepping far past any data is allowed; downstream slices just
	// come back empty or flat
	clock.Step(90*24*time.Hour, true)
	assert.True(t, clock.Now().Equal(anchor.Add(90*24*time.Hour)))
}
