package app

import (
	"time"

	"marketrewind/internal/domain"
)

// ViewConfig is one chart's state: what to show and how. Created when
// the workspace is configured, mutated by user selection.
type ViewConfig struct {
	ID        int
	Symbol    string
	Timeframe domain.Timeframe
	Session   domain.SessionFilter
	Mode      domain.ViewMode
}

// ChartScale holds the per-timeframe display constants a chart widget
// needs. Data, not control flow.
type ChartScale struct {
	MinBarSpacing float64
	RightOffset   int
}

// Replay mode spaces bars out so the forming edge stays readable.
var replayScales = map[domain.Timeframe]ChartScale{
	domain.TF1Min:  {MinBarSpacing: 8.0, RightOffset: 45},
	domain.TF5Min:  {MinBarSpacing: 10.0, RightOffset: 30},
	domain.TF15Min: {MinBarSpacing: 12.0, RightOffset: 20},
	domain.TF30Min: {MinBarSpacing: 14.0, RightOffset: 10},
	domain.TF1Hour: {MinBarSpacing: 16.0, RightOffset: 5},
	domain.TF1Day:  {MinBarSpacing: 20.0, RightOffset: 2},
}

// Viewer mode packs the full history densely.
var viewerScales = map[domain.Timeframe]ChartScale{
	domain.TF1Min:  {MinBarSpacing: 0.5, RightOffset: 5},
	domain.TF5Min:  {MinBarSpacing: 2.0, RightOffset: 5},
	domain.TF15Min: {MinBarSpacing: 4.0, RightOffset: 5},
	domain.TF30Min: {MinBarSpacing: 7.0, RightOffset: 5},
	domain.TF1Hour: {MinBarSpacing: 8.0, RightOffset: 5},
	domain.TF1Day:  {MinBarSpacing: 10.0, RightOffset: 5},
}

// ScaleFor looks up the display constants for a timeframe and view mode.
func ScaleFor(tf domain.Timeframe, mode domain.ViewMode) ChartScale {
	if mode == domain.ModeReplay {
		if s, ok := replayScales[tf]; ok {
			return s
		}
		return ChartScale{MinBarSpacing: 10.0, RightOffset: 20}
	}
	if s, ok := viewerScales[tf]; ok {
		return s
	}
	return ChartScale{MinBarSpacing: 5.0, RightOffset: 5}
}

// Frame is one view's renderable output at the current playhead.
type Frame struct {
	View    ViewConfig
	Series  domain.BarSeries
	Scale   ChartScale
	HasData bool   // bars exist on the current anchor date for this view
	Notice  string // user-visible message when the fetch degraded to empty
}

// PlayheadState is the clock snapshot handed to the presentation layer.
type PlayheadState struct {
	Now        time.Time // UTC
	AnchorDate time.Time // midnight of the anchor day, market zone
	Playing    bool
	Speed      float64 // seconds of wall clock per step
}
