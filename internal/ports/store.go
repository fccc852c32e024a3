package ports

import (
	"context"
	"time"

	"marketrewind/internal/domain"
)

// BarStore is the read-only source of raw 1-minute bars.
type BarStore interface {
	// Fetch returns all 1-minute bars for symbol at or after since,
	// ordered ascending by time. An empty series with a nil error means
	// "no rows"; connectivity, query and parse failures are reported as
	// distinct errors (ErrConnectivity, ErrQueryFailed, ErrParse).
	Fetch(ctx context.Context, symbol string, since time.Time, session domain.SessionFilter) (domain.BarSeries, error)
}

// SymbolCatalog lists the tickers available for replay.
type SymbolCatalog interface {
	// ListSymbols returns the available tickers in alphabetical order.
	ListSymbols(ctx context.Context) ([]string, error)
}

// BarWriter ingests downloaded bars. Only the offline backfill tool
// writes; the replay core treats the store as read-only.
type BarWriter interface {
	// InsertBars stores the given bars for symbol under the given session
	// tag, replacing rows with identical timestamps. Returns the number
	// of rows written.
	InsertBars(ctx context.Context, symbol string, session domain.SessionFilter, bars domain.BarSeries) (int, error)
}
