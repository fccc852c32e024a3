package replay

import (
	"time"

	"marketrewind/internal/domain"
)

// DefaultStep is the playback advance used when no replay view is
// contributing a timeframe.
const DefaultStep = time.Minute

// ResolveStep returns the playback step size: the minimum width among
// the active timeframes, so no view's clock advance skips a bar it
// should show. Callers must recompute this every cycle from live view
// state; a stale cached step is a correctness bug, not a performance one.
func ResolveStep(active []domain.Timeframe) time.Duration {
	var step time.Duration
	for _, tf := range active {
		if d := tf.Duration(); step == 0 || d < step {
			step = d
		}
	}
	if step == 0 {
		return DefaultStep
	}
	return step
}
