package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"marketrewind/config"
	"marketrewind/internal/adapters/logger"
	"marketrewind/internal/adapters/sqlite"
	"marketrewind/internal/app"
	"marketrewind/internal/domain"
	"marketrewind/internal/ports"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	appLogger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"backend": cfg.LogBackend, "level": cfg.LogLevel.String()})

	// Connectivity loss at startup is fatal: nothing can proceed without
	// the store.
	store, err := sqlite.NewStore(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: market-data store unavailable: %v", err)
	}
	defer store.Close()

	workspace, err := app.NewWorkspaceService(cfg, appLogger, store, store)
	if err != nil {
		log.Fatalf("FATAL: Failed to create workspace: %v", err)
	}
	defer workspace.Close()

	layout, err := loadLayout(cfg)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := workspace.Configure(ctx, layout); err != nil {
		log.Fatalf("FATAL: Failed to configure workspace: %v", err)
	}

	workspace.SetNotify(func() { render(ctx, workspace) })

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLogger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
		os.Exit(0)
	}()

	// Initial render discovers the latest available date and seeds the
	// playhead anchor.
	render(ctx, workspace)
	runConsole(ctx, workspace, cfg.Market)
}

func buildLogger(cfg *config.Config) (ports.Logger, error) {
	if cfg.LogBackend == "zap" {
		return logger.NewZapLogger(cfg.LogLevel)
	}
	return logger.NewStdLogger(cfg.LogLevel), nil
}

func loadLayout(cfg *config.Config) (*config.Layout, error) {
	if cfg.LayoutPath != "" {
		return config.LoadLayout(cfg.LayoutPath)
	}
	return config.DefaultLayout(cfg.NumCharts), nil
}

// render draws all frames and the playhead to stdout. This stands in for
// the chart presentation layer, which consumes the same Frame output.
func render(ctx context.Context, workspace *app.WorkspaceService) {
	frames, playhead := workspace.RenderAll(ctx)

	if !playhead.AnchorDate.IsZero() && !workspace.HasData() {
		fmt.Printf("-- no market data available for %s; select another date --\n", playhead.AnchorDate.Format("2006-01-02"))
	}
	for _, f := range frames {
		if f.Notice != "" {
			fmt.Printf("[%d] %s\n", f.View.ID, f.Notice)
			continue
		}
		if f.View.Symbol == "" {
			fmt.Printf("[%d] no ticker selected\n", f.View.ID)
			continue
		}
		if last, ok := f.Series.Last(); ok {
			fmt.Printf("[%d] %s %s %s: %d bars, last %s o=%.2f h=%.2f l=%.2f c=%.2f v=%.0f %s\n",
				f.View.ID, f.View.Symbol, f.View.Timeframe, f.View.Mode,
				len(f.Series), last.Time.Format("2006-01-02 15:04"),
				last.Open, last.High, last.Low, last.Close, last.Volume, last.Color)
		} else {
			fmt.Printf("[%d] %s %s %s: no bars visible\n", f.View.ID, f.View.Symbol, f.View.Timeframe, f.View.Mode)
		}
	}
	if playhead.Playing || !playhead.Now.IsZero() {
		fmt.Printf("playhead %s | speed %vs | playing=%v\n", playhead.Now.Format("2006-01-02 15:04:05 MST"), playhead.Speed, playhead.Playing)
	}
}

func runConsole(ctx context.Context, workspace *app.WorkspaceService, market *time.Location) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: play pause next prev reset seek <date> speed <s> ticker <view> <sym> tf <view> <tf> session <view> <REG|ALL> mode <view> <viewer|replay> symbols show quit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := dispatch(ctx, workspace, market, fields); err != nil {
			if err == errQuit {
				return
			}
			fmt.Printf("!! %v\n", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func dispatch(ctx context.Context, workspace *app.WorkspaceService, market *time.Location, fields []string) error {
	switch fields[0] {
	case "quit", "exit":
		return errQuit
	case "play":
		if err := workspace.Play(ctx); err != nil {
			return err
		}
	case "pause":
		workspace.Pause(ctx)
	case "next":
		if err := workspace.StepForward(ctx); err != nil {
			return err
		}
	case "prev":
		if err := workspace.StepBack(ctx); err != nil {
			return err
		}
	case "reset":
		workspace.Reset(ctx)
	case "seek":
		if len(fields) < 2 {
			return fmt.Errorf("usage: seek YYYY-MM-DD")
		}
		// Dates are civil days in the market zone; parsing in UTC would
		// shift the seek back a day east of Greenwich midnights.
		date, err := time.ParseInLocation("2006-01-02", fields[1], market)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", fields[1], err)
		}
		workspace.SeekDate(ctx, date)
	case "speed":
		if len(fields) < 2 {
			return fmt.Errorf("usage: speed <seconds>")
		}
		s, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("invalid speed %q: %w", fields[1], err)
		}
		return workspace.SetSpeed(s)
	case "ticker":
		if len(fields) < 3 {
			return fmt.Errorf("usage: ticker <view> <symbol>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid view id %q", fields[1])
		}
		return workspace.SelectTicker(id, fields[2])
	case "tf":
		if len(fields) < 3 {
			return fmt.Errorf("usage: tf <view> <timeframe>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid view id %q", fields[1])
		}
		tf, err := domain.ParseTimeframe(fields[2])
		if err != nil {
			return err
		}
		return workspace.SelectTimeframe(id, tf)
	case "session":
		if len(fields) < 3 {
			return fmt.Errorf("usage: session <view> <REG|ALL>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid view id %q", fields[1])
		}
		session, err := domain.ParseSessionFilter(fields[2])
		if err != nil {
			return err
		}
		return workspace.SelectSessionFilter(id, session)
	case "mode":
		if len(fields) < 3 {
			return fmt.Errorf("usage: mode <view> <viewer|replay>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid view id %q", fields[1])
		}
		mode, err := domain.ParseViewMode(fields[2])
		if err != nil {
			return err
		}
		return workspace.SelectViewMode(id, mode)
	case "symbols":
		symbols, err := workspace.Symbols(ctx)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(symbols, " "))
		return nil
	case "show":
		// fall through to the render below
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	render(ctx, workspace)
	return nil
}
