package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"marketrewind/internal/adapters/logger" // Import the logger package for LogLevel
	"marketrewind/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DBPath string

	// Market calendar
	MarketTimezone string         // IANA name, e.g. "America/New_York"
	Market         *time.Location // resolved from MarketTimezone
	AnchorHour     int            // local time-of-day the playhead resets to
	AnchorMinute   int
	EarliestDate   time.Time // load horizon for raw 1-minute bars

	// Playback
	DefaultSpeed float64       // seconds of wall clock per step
	FetchTimeout time.Duration // bound on a single store fetch

	// Workspace
	LayoutPath string // optional YAML layout preset; empty = built-in default
	NumCharts  int    // used when LayoutPath is empty

	// Logging
	LogLevel   logger.LogLevel
	LogBackend string // "std" or "zap"

	// Binance API (backfill tool only)
	APIKey    string
	SecretKey string
	IsTestnet bool
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/market_rewind.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Market calendar
	cfg.MarketTimezone = getEnv("MARKET_TIMEZONE", "America/New_York")
	cfg.Market, err = time.LoadLocation(cfg.MarketTimezone)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MARKET_TIMEZONE %q: %v", cfg.MarketTimezone, err))
	}

	// Anchor time-of-day: the playhead position after a seek or reset.
	// 09:29 is the pre-open minute before the regular session.
	anchorStr := getEnv("ANCHOR_TIME", "09:29")
	cfg.AnchorHour, cfg.AnchorMinute, err = parseAnchorTime(anchorStr)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ANCHOR_TIME: %v", err))
	}

	earliestStr := getEnv("EARLIEST_DATE", "2024-01-01")
	cfg.EarliestDate, err = time.Parse("2006-01-02", earliestStr)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid EARLIEST_DATE %q: %v", earliestStr, err))
	}

	// Playback
	cfg.DefaultSpeed, err = getEnvAsFloatRequired("DEFAULT_SPEED", domain.DefaultSpeed)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_SPEED: %v", err))
	} else if !domain.ValidSpeed(cfg.DefaultSpeed) {
		errs = append(errs, fmt.Sprintf("DEFAULT_SPEED %v is not one of %v", cfg.DefaultSpeed, domain.Speeds))
	}

	fetchTimeoutSeconds := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)
	if fetchTimeoutSeconds <= 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must be positive")
	}
	cfg.FetchTimeout = time.Duration(fetchTimeoutSeconds) * time.Second

	// Workspace
	cfg.LayoutPath = getEnv("LAYOUT_PATH", "")
	cfg.NumCharts = getEnvAsInt("NUM_CHARTS", 1)
	if cfg.NumCharts < 1 || cfg.NumCharts > MaxCharts {
		errs = append(errs, fmt.Sprintf("NUM_CHARTS must be between 1 and %d", MaxCharts))
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogBackend = strings.ToLower(getEnv("LOG_BACKEND", "std"))
	if cfg.LogBackend != "std" && cfg.LogBackend != "zap" {
		errs = append(errs, fmt.Sprintf("LOG_BACKEND must be 'std' or 'zap', got %q", cfg.LogBackend))
	}

	// Binance API (optional; only the backfill tool needs it)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// parseAnchorTime parses a local "HH:MM" time-of-day.
func parseAnchorTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time-of-day %q (want HH:MM): %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
