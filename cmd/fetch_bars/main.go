package main

import (
	"context"
	"flag"
	"log"
	"time"

	"marketrewind/config"
	"marketrewind/internal/adapters/binanceclient"
	"marketrewind/internal/adapters/logger"
	"marketrewind/internal/adapters/sqlite"
	"marketrewind/internal/domain"
)

// fetch_bars backfills the local market-data store with 1-minute bars
// downloaded from Binance. The replay engine itself never writes.
func main() {
	symbol := flag.String("symbol", "ETHUSDT", "symbol to download")
	days := flag.Int("days", 30, "number of days of history to fetch")
	session := flag.String("session", string(domain.SessionExtended), "session tag to store bars under (crypto trades around the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	sessionFilter, err := domain.ParseSessionFilter(*session)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("FATAL: Binance unreachable: %v", err)
	}

	store, err := sqlite.NewStore(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: market-data store unavailable: %v", err)
	}
	defer store.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)
	appLogger.Info(ctx, "Fetching 1m bars", map[string]interface{}{"symbol": *symbol, "start": start, "end": end})

	bars, err := client.GetBarsRange(ctx, *symbol, start, end)
	if err != nil {
		log.Fatalf("FATAL: Error fetching bars: %v", err)
	}
	appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"count": len(bars)})

	count, err := store.InsertBars(ctx, *symbol, sessionFilter, bars)
	if err != nil {
		log.Fatalf("FATAL: Error storing bars: %v", err)
	}
	appLogger.Info(ctx, "Backfill complete", map[string]interface{}{"symbol": *symbol, "rows": count})
}
