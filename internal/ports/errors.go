package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure failures with these so the
// replay core only ever sees valid series or empty series.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrConfiguration = errors.New("invalid or missing configuration")

	// Data store errors. Connectivity failure is fatal at startup;
	// query and parse failures degrade the affected series to empty and
	// are reported.
	ErrConnectivity = errors.New("data store unreachable")
	ErrQueryFailed  = errors.New("data store query failed")
	ErrParse        = errors.New("malformed row from data store")

	// Exchange errors (backfill tool only).
	ErrExchangeUnavailable = errors.New("exchange API is unavailable")
	ErrRateLimited         = errors.New("API rate limit exceeded")
	ErrInvalidRequest      = errors.New("invalid request parameters or format")
)
