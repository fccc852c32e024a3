package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"marketrewind/config"
	"marketrewind/internal/adapters/logger"
	"marketrewind/internal/adapters/sqlite"
	"marketrewind/internal/domain"
	"marketrewind/internal/replay"
	"marketrewind/internal/utils"
)

// export_bars resamples stored 1-minute bars to a chosen timeframe and
// writes the result to CSV.
func main() {
	symbol := flag.String("symbol", "", "symbol to export (required)")
	tfStr := flag.String("tf", "5m", "target timeframe (1m 5m 15m 30m 1h 1d)")
	sessionStr := flag.String("session", string(domain.SessionRegular), "session filter (REG or ALL)")
	out := flag.String("out", "", "output file (default data/<symbol>_<tf>.csv)")
	flag.Parse()

	if *symbol == "" {
		log.Fatal("FATAL: -symbol is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	tf, err := domain.ParseTimeframe(*tfStr)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	session, err := domain.ParseSessionFilter(*sessionStr)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	store, err := sqlite.NewStore(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: market-data store unavailable: %v", err)
	}
	defer store.Close()

	raw, err := store.Fetch(ctx, *symbol, cfg.EarliestDate, session)
	if err != nil {
		log.Fatalf("FATAL: Error fetching bars: %v", err)
	}
	if len(raw) == 0 {
		log.Fatalf("FATAL: no bars stored for %s", *symbol)
	}

	series := replay.Aggregate(raw, tf, cfg.Market)

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s.csv", *symbol, tf)
	}
	if err := utils.WriteBarsToCSV(series, filename); err != nil {
		log.Fatalf("FATAL: Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Export complete", map[string]interface{}{"symbol": *symbol, "timeframe": tf.String(), "rows": len(series), "file": filename})
}
