package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"marketrewind/config"
	"marketrewind/internal/domain"
	"marketrewind/internal/ports"
	"marketrewind/internal/replay"
)

// State is the playback state machine's current node.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring" // layout chosen, no playhead movement yet
	StatePaused      State = "paused"      // replay-active, playhead frozen
	StatePlaying     State = "playing"     // playhead advancing on a cadence
)

// ErrNoDataForDate gates play and step transitions when the anchor date
// has zero bars across all configured views. It is an expected condition
// (weekends, holidays), not a failure: the playhead must not advance
// into a region with nothing to render.
var ErrNoDataForDate = errors.New("no market data for the selected date")

// WorkspaceService owns the shared playhead clock and the playback state
// machine, and coordinates every configured view against them. It is the
// single writer of all replay state; every transition happens under one
// mutex.
type WorkspaceService struct {
	cfg     *config.Config
	logger  ports.Logger
	store   ports.BarStore
	catalog ports.SymbolCatalog
	cache   *seriesCache

	mu            sync.Mutex
	state         State
	clock         *replay.Clock
	speed         float64
	views         []*ViewConfig
	viewHasSeries map[int]bool // refreshed by RenderAll
	hasData       bool         // any view covers the anchor date
	anchorSeeded  bool
	stop          chan struct{} // closes to cancel the playing scheduler
	notify        func()        // re-render request, set by the driver
}

// NewWorkspaceService creates the workspace session around the shared
// playhead clock.
func NewWorkspaceService(cfg *config.Config, logger ports.Logger, store ports.BarStore, catalog ports.SymbolCatalog) (*WorkspaceService, error) {
	if cfg == nil || logger == nil || store == nil || catalog == nil {
		return nil, fmt.Errorf("missing required dependencies for WorkspaceService")
	}
	cache, err := newSeriesCache()
	if err != nil {
		return nil, err
	}
	return &WorkspaceService{
		cfg:           cfg,
		logger:        logger,
		store:         store,
		catalog:       catalog,
		cache:         cache,
		state:         StateIdle,
		clock:         replay.NewClock(cfg.Market, cfg.AnchorHour, cfg.AnchorMinute),
		speed:         cfg.DefaultSpeed,
		viewHasSeries: make(map[int]bool),
	}, nil
}

// SetNotify registers the re-render callback invoked after every
// scheduled playhead advance.
func (w *WorkspaceService) SetNotify(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notify = fn
}

// Configure builds the workspace's views from a layout preset and moves
// the state machine to Configuring. Presets without a ticker get the
// first catalog symbol.
func (w *WorkspaceService) Configure(ctx context.Context, layout *config.Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	symbols, err := w.catalog.ListSymbols(ctx)
	if err != nil {
		// Degrade: views start without a ticker and contribute nothing.
		w.logger.Error(ctx, err, "symbol catalog unavailable; views start empty")
		symbols = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.views = w.views[:0]
	for i, preset := range layout.Charts {
		ticker := preset.Ticker
		if ticker == "" && len(symbols) > 0 {
			ticker = symbols[0]
		}
		tf, _ := domain.ParseTimeframe(preset.Timeframe)
		session, _ := domain.ParseSessionFilter(preset.Session)
		mode, _ := domain.ParseViewMode(preset.Mode)
		w.views = append(w.views, &ViewConfig{
			ID:        i,
			Symbol:    ticker,
			Timeframe: tf,
			Session:   session,
			Mode:      mode,
		})
		w.viewHasSeries[i] = true // optimistic until the first render
	}
	w.state = StateConfiguring
	w.logger.Info(ctx, "Workspace configured", map[string]interface{}{"charts": len(w.views)})
	return nil
}

// Symbols returns the ticker catalog for the presentation layer.
func (w *WorkspaceService) Symbols(ctx context.Context) ([]string, error) {
	return w.catalog.ListSymbols(ctx)
}

// --- Per-view selection events ---

// SelectTicker changes a view's symbol.
func (w *WorkspaceService) SelectTicker(viewID int, symbol string) error {
	return w.updateView(viewID, func(v *ViewConfig) { v.Symbol = symbol })
}

// SelectTimeframe changes a view's aggregation width.
func (w *WorkspaceService) SelectTimeframe(viewID int, tf domain.Timeframe) error {
	return w.updateView(viewID, func(v *ViewConfig) { v.Timeframe = tf })
}

// SelectSessionFilter toggles extended-hours data for a view.
func (w *WorkspaceService) SelectSessionFilter(viewID int, session domain.SessionFilter) error {
	return w.updateView(viewID, func(v *ViewConfig) { v.Session = session })
}

// SelectViewMode switches a view between full-history and causal replay.
func (w *WorkspaceService) SelectViewMode(viewID int, mode domain.ViewMode) error {
	return w.updateView(viewID, func(v *ViewConfig) { v.Mode = mode })
}

func (w *WorkspaceService) updateView(viewID int, apply func(*ViewConfig)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, v := range w.views {
		if v.ID == viewID {
			apply(v)
			return nil
		}
	}
	return fmt.Errorf("view %d: %w", viewID, ports.ErrNotFound)
}

// --- Playback transitions ---

// Play starts advancing the playhead at the configured cadence. Rejected
// with ErrNoDataForDate when the anchor date has no bars anywhere; the
// playhead does not move in that case.
func (w *WorkspaceService) Play(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePlaying {
		return nil
	}
	if !w.hasData {
		w.logger.Warn(ctx, "play rejected: no data for date", map[string]interface{}{"anchorDate": w.clock.AnchorDate().Format("2006-01-02")})
		return ErrNoDataForDate
	}
	for _, v := range w.views {
		v.Mode = domain.ModeReplay
	}
	w.state = StatePlaying
	w.startSchedulerLocked()
	return nil
}

// Pause freezes the playhead. Pausing is the only cancellation
// primitive: it stops the next scheduled advance.
func (w *WorkspaceService) Pause(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StatePlaying {
		return
	}
	w.stopSchedulerLocked()
	w.state = StatePaused
}

// StepForward moves the playhead forward by exactly one resolved step.
func (w *WorkspaceService) StepForward(ctx context.Context) error {
	return w.step(ctx, true)
}

// StepBack moves the playhead back by exactly one resolved step.
func (w *WorkspaceService) StepBack(ctx context.Context) error {
	return w.step(ctx, false)
}

func (w *WorkspaceService) step(ctx context.Context, forward bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePlaying {
		return nil
	}
	if !w.hasData {
		w.logger.Warn(ctx, "step rejected: no data for date", map[string]interface{}{"anchorDate": w.clock.AnchorDate().Format("2006-01-02")})
		return ErrNoDataForDate
	}
	w.clock.Step(w.stepLocked(), forward)
	// Stepping enters the replay-active state even from Idle.
	w.state = StatePaused
	return nil
}

// SeekDate resets the playhead to the anchor time on the given date,
// pauses playback, and forces every view into replay mode: a date change
// means the user wants to inspect a historical moment.
func (w *WorkspaceService) SeekDate(ctx context.Context, date time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopSchedulerLocked()
	w.clock.SeekToDate(date)
	w.anchorSeeded = true
	for _, v := range w.views {
		v.Mode = domain.ModeReplay
	}
	w.state = StatePaused
	w.logger.Info(ctx, "playhead seeked", map[string]interface{}{"anchorDate": w.clock.AnchorDate().Format("2006-01-02")})
}

// Reset snaps the playhead back to the anchor time on the current anchor
// date, pauses playback, and forces replay mode.
func (w *WorkspaceService) Reset(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopSchedulerLocked()
	w.clock.Reset()
	for _, v := range w.views {
		v.Mode = domain.ModeReplay
	}
	w.state = StatePaused
}

// SetSpeed changes the playback cadence. While playing, the scheduler is
// restarted at the new interval.
func (w *WorkspaceService) SetSpeed(s float64) error {
	if !domain.ValidSpeed(s) {
		return fmt.Errorf("speed %v is not one of %v", s, domain.Speeds)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.speed = s
	if w.state == StatePlaying {
		w.stopSchedulerLocked()
		w.startSchedulerLocked()
	}
	return nil
}

// --- Scheduler (the Playing state's self-re-trigger) ---

// startSchedulerLocked launches the ticker goroutine that advances the
// playhead while Playing. Callers hold w.mu.
func (w *WorkspaceService) startSchedulerLocked() {
	stop := make(chan struct{})
	w.stop = stop
	interval := time.Duration(w.speed * float64(time.Second))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				w.advanceTick()
			}
		}
	}()
}

// stopSchedulerLocked cancels the pending advance, if any. Callers hold w.mu.
func (w *WorkspaceService) stopSchedulerLocked() {
	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
}

func (w *WorkspaceService) advanceTick() {
	w.mu.Lock()
	if w.state != StatePlaying {
		w.mu.Unlock()
		return
	}
	w.clock.Advance(w.stepLocked())
	notify := w.notify
	w.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// stepLocked resolves the current step size from live view state. A view
// with no ticker, no data, or not in replay mode contributes nothing.
// Callers hold w.mu.
func (w *WorkspaceService) stepLocked() time.Duration {
	var active []domain.Timeframe
	for _, v := range w.views {
		if v.Symbol == "" || v.Mode != domain.ModeReplay {
			continue
		}
		if !w.viewHasSeries[v.ID] {
			continue
		}
		active = append(active, v.Timeframe)
	}
	return replay.ResolveStep(active)
}

// --- Rendering (the coordinator fan-out) ---

// RenderAll produces a frame for every view at the current playhead and
// refreshes the data-availability gate and the step-size inputs. Data
// fetch failures degrade the affected view to an empty series with a
// notice; the rest of the workspace is unaffected.
func (w *WorkspaceService) RenderAll(ctx context.Context) ([]Frame, PlayheadState) {
	w.mu.Lock()
	views := make([]ViewConfig, len(w.views))
	for i, v := range w.views {
		views[i] = *v
	}
	w.mu.Unlock()

	// Fetches run outside the lock; they are synchronous, bounded by the
	// configured timeout, and memoized.
	raws := make([]domain.BarSeries, len(views))
	fetchErrs := make([]error, len(views))
	var latest time.Time
	for i, v := range views {
		if v.Symbol == "" {
			continue
		}
		raw, err := w.loadSeries(ctx, v.Symbol, v.Session)
		raws[i], fetchErrs[i] = raw, err
		if last, ok := raw.Last(); ok && last.Time.After(latest) {
			latest = last.Time
		}
	}

	// Seed the initial anchor date from the newest stored bar once.
	w.mu.Lock()
	if !w.anchorSeeded && !latest.IsZero() {
		w.clock.SeekToDate(latest)
		w.anchorSeeded = true
	}
	now := w.clock.Now()
	anchorDate := w.clock.AnchorDate()
	w.mu.Unlock()

	frames := make([]Frame, len(views))
	hasData := false
	viewHasSeries := make(map[int]bool, len(views))
	for i, v := range views {
		f := Frame{View: v, Scale: ScaleFor(v.Timeframe, v.Mode)}
		switch {
		case v.Symbol == "":
			// Unconfigured view: empty frame, contributes nothing.
		case fetchErrs[i] != nil:
			w.logger.Error(ctx, fetchErrs[i], "bar fetch failed; view degraded to empty", map[string]interface{}{"view": v.ID, "symbol": v.Symbol})
			f.Notice = fmt.Sprintf("data unavailable for %s", v.Symbol)
		default:
			raw := raws[i]
			viewHasSeries[v.ID] = len(raw) > 0
			if len(raw) > 0 && !anchorDate.IsZero() {
				f.HasData = raw.CoversDay(anchorDate, w.cfg.Market)
			}
			if f.HasData {
				hasData = true
			}
			if v.Mode == domain.ModeReplay {
				// Dynamic construction: slice the raw minutes first, then
				// aggregate only the visible prefix, so the in-progress
				// coarse bucket shows just the data accumulated so far.
				visible := replay.SliceAt(raw, now)
				f.Series = replay.Aggregate(visible, v.Timeframe, w.cfg.Market)
			} else {
				f.Series = replay.Aggregate(raw, v.Timeframe, w.cfg.Market)
			}
		}
		frames[i] = f
	}

	w.mu.Lock()
	w.hasData = hasData
	w.viewHasSeries = viewHasSeries
	ps := w.playheadLocked()
	w.mu.Unlock()
	return frames, ps
}

func (w *WorkspaceService) loadSeries(ctx context.Context, symbol string, session domain.SessionFilter) (domain.BarSeries, error) {
	key := seriesKey(symbol, session, w.cfg.EarliestDate)
	if series, ok := w.cache.get(key); ok {
		return series, nil
	}
	ctx, cancel := context.WithTimeout(ctx, w.cfg.FetchTimeout)
	defer cancel()
	series, err := w.store.Fetch(ctx, symbol, w.cfg.EarliestDate, session)
	if err != nil {
		return nil, err
	}
	w.cache.set(key, series)
	return series, nil
}

// --- Snapshots ---

// State returns the state machine's current node.
func (w *WorkspaceService) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// HasData reports whether any configured view has bars on the current
// anchor date, as of the last render.
func (w *WorkspaceService) HasData() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasData
}

// Playhead returns the current clock snapshot.
func (w *WorkspaceService) Playhead() PlayheadState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.playheadLocked()
}

func (w *WorkspaceService) playheadLocked() PlayheadState {
	return PlayheadState{
		Now:        w.clock.Now(),
		AnchorDate: w.clock.AnchorDate(),
		Playing:    w.state == StatePlaying,
		Speed:      w.speed,
	}
}

// Views returns a copy of the current view configurations.
func (w *WorkspaceService) Views() []ViewConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ViewConfig, len(w.views))
	for i, v := range w.views {
		out[i] = *v
	}
	return out
}

// Close stops any running scheduler.
func (w *WorkspaceService) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopSchedulerLocked()
	if w.state == StatePlaying {
		w.state = StatePaused
	}
}
