package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframe_Duration(t *testing.T) {
	tests := []struct {
		tf   Timeframe
		want time.Duration
	}{
		{TF1Min, time.Minute},
		{TF5Min, 5 * time.Minute},
		{TF15Min, 15 * time.Minute},
		{TF30Min, 30 * time.Minute},
		{TF1Hour, time.Hour},
		{TF1Day, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(string(tt.tf), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tf.Duration())
		})
	}
}

func TestTimeframes_Ascending(t *testing.T) {
	for i := 1; i < len(Timeframes); i++ {
		assert.Greater(t, Timeframes[i].Duration(), Timeframes[i-1].Duration())
	}
}

func TestParseTimeframe(t *testing.T) {
	for _, tf := range Timeframes {
		got, err := ParseTimeframe(string(tf))
		require.NoError(t, err)
		assert.Equal(t, tf, got)
	}

	for _, bad := range []string{"", "2m", "1M", "60m", "day"} {
		_, err := ParseTimeframe(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeframe_IsDaily(t *testing.T) {
	assert.True(t, TF1Day.IsDaily())
	assert.False(t, TF1Hour.IsDaily())
	assert.False(t, TF1Min.IsDaily())
}
