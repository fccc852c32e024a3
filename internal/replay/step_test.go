package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketrewind/internal/domain"
)

func TestResolveStep(t *testing.T) {
	tests := []struct {
		name   string
		active []domain.Timeframe
		want   time.Duration
	}{
		{name: "no active views defaults to one minute", active: nil, want: time.Minute},
		{name: "single view", active: []domain.Timeframe{domain.TF30Min}, want: 30 * time.Minute},
		{
			name:   "minute view pins the step under a daily view",
			active: []domain.Timeframe{domain.TF1Min, domain.TF1Day},
			want:   time.Minute,
		},
		{
			name:   "minimum of mixed set",
			active: []domain.Timeframe{domain.TF1Hour, domain.TF5Min, domain.TF30Min},
			want:   5 * time.Minute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStep(tt.active))
		})
	}
}
