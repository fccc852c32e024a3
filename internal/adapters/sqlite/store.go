package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"marketrewind/internal/domain"
	"marketrewind/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store implements the ports.BarStore, ports.SymbolCatalog and
// ports.BarWriter interfaces using SQLite.
type Store struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite store.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewStore opens (or creates) the market-data database and verifies
// connectivity. A failed ping is reported as ports.ErrConnectivity,
// which callers treat as fatal: nothing can proceed without the store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite store")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/market_rewind.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %v: %w", dbPath, err, ports.ErrConnectivity)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %v: %w", dbPath, err, ports.ErrConnectivity)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from
	// limiting connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite market-data store opened", map[string]interface{}{"path": dbPath})

	store := &Store{db: db, logger: cfg.Logger}
	if err := store.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite store initialization failed")
		return nil, err
	}

	return store, nil
}

func (s *Store) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS market_data (
		symbol TEXT NOT NULL,
		timestamp TEXT NOT NULL, -- RFC 3339, UTC
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL,
		session TEXT NOT NULL DEFAULT 'REG',
		PRIMARY KEY (symbol, timestamp)
	);

	CREATE TABLE IF NOT EXISTS symbol_map (
		user_ticker TEXT PRIMARY KEY
	);
	CREATE INDEX IF NOT EXISTS idx_market_data_symbol_ts ON market_data (symbol, timestamp);
	`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		s.logger.Info(context.Background(), "Closing SQLite market-data store")
		return s.db.Close()
	}
	return nil
}

// --- BarStore implementation ---

// Fetch returns all 1-minute bars for symbol at or after since, ordered
// ascending by timestamp. An empty series with a nil error means "no
// rows"; that is a different condition from a failed query and is
// reported differently upstream.
func (s *Store) Fetch(ctx context.Context, symbol string, since time.Time, session domain.SessionFilter) (domain.BarSeries, error) {
	query := `
	SELECT timestamp, open, high, low, close, volume
	FROM market_data
	WHERE symbol = ? AND timestamp >= ?`
	args := []interface{}{symbol, since.UTC().Format(time.RFC3339)}
	if session == domain.SessionRegular {
		query += ` AND session = 'REG'`
	}
	query += ` ORDER BY timestamp`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bars for symbol %s: %v: %w", symbol, err, ports.ErrQueryFailed)
	}
	defer rows.Close()

	series := make(domain.BarSeries, 0, 4096)
	for rows.Next() {
		var (
			ts  string
			bar domain.Bar
		)
		if err := rows.Scan(&ts, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scanning bar row for symbol %s: %v: %w", symbol, err, ports.ErrParse)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			// A single malformed timestamp discards the whole series; a
			// partially-typed row must never reach the aggregator.
			return nil, fmt.Errorf("parsing timestamp %q for symbol %s: %v: %w", ts, symbol, err, ports.ErrParse)
		}
		bar.Time = t.UTC()
		series = append(series, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bar rows for symbol %s: %v: %w", symbol, err, ports.ErrQueryFailed)
	}
	return series, nil
}

// --- SymbolCatalog implementation ---

// ListSymbols returns the available tickers in alphabetical order.
func (s *Store) ListSymbols(ctx context.Context) ([]string, error) {
	const query = `SELECT user_ticker FROM symbol_map ORDER BY user_ticker`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying symbol catalog: %v: %w", err, ports.ErrQueryFailed)
	}
	defer rows.Close()

	symbols := make([]string, 0)
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scanning symbol row: %v: %w", err, ports.ErrParse)
		}
		symbols = append(symbols, sym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating symbol rows: %v: %w", err, ports.ErrQueryFailed)
	}
	return symbols, nil
}

// --- BarWriter implementation (backfill tool only) ---

// InsertBars stores the given bars for symbol under the given session
// tag and registers the symbol in the catalog. Rows with identical
// timestamps are replaced.
func (s *Store) InsertBars(ctx context.Context, symbol string, session domain.SessionFilter, bars domain.BarSeries) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning insert transaction for %s: %w", symbol, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO symbol_map (user_ticker) VALUES (?)`, symbol); err != nil {
		return 0, fmt.Errorf("registering symbol %s: %w", symbol, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO market_data (symbol, timestamp, open, high, low, close, volume, session)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing bar insert for %s: %w", symbol, err)
	}
	defer stmt.Close()

	count := 0
	for _, b := range bars {
		_, err := stmt.ExecContext(ctx,
			symbol, b.Time.UTC().Format(time.RFC3339), b.Open, b.High, b.Low, b.Close, b.Volume, string(session))
		if err != nil {
			return 0, fmt.Errorf("inserting bar at %s for %s: %w", b.Time, symbol, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing bar insert for %s: %w", symbol, err)
	}
	s.logger.Debug(ctx, "Bars inserted", map[string]interface{}{"symbol": symbol, "count": count})
	return count, nil
}
