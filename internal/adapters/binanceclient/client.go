package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"marketrewind/internal/domain"
	"marketrewind/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// interval is fixed: the store holds 1-minute bars only; coarser
	// timeframes are derived at replay time.
	interval = "1m"
)

// Client downloads historical 1-minute klines for the backfill tool
// using the go-binance library.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter. Keys may be empty: kline
// history is a public endpoint.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": client.BaseURL})

	return &Client{futuresClient: client, logger: cfg.Logger}, nil
}

// handleError translates common Binance API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1100, -1104, -1121: // Parameter/symbol errors
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrExchangeUnavailable
		}
		c.logger.Error(ctx, mappedErr, "Binance API error", fields)
		return fmt.Errorf("%s: %s: %w", operation, apiErr.Message, mappedErr)
	}

	c.logger.Error(ctx, err, "Binance request failed", fields)
	return fmt.Errorf("%s: %v: %w", operation, err, ports.ErrExchangeUnavailable)
}

// Ping checks connectivity to the exchange API.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, "Ping")
	}
	return nil
}

// GetBarsRange fetches all 1-minute bars for a symbol between start and
// end, paging through the API limit.
func (c *Client) GetBarsRange(ctx context.Context, symbol string, start, end time.Time) (domain.BarSeries, error) {
	op := "GetBarsRange"
	const maxLimit = 1500
	var all domain.BarSeries
	from := start

	for {
		klines, err := c.futuresClient.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(from.UnixMilli()).
			EndTime(end.UnixMilli()).
			Limit(maxLimit).
			Do(ctx)
		if err != nil {
			return nil, c.handleError(ctx, err, op)
		}
		if len(klines) == 0 {
			break
		}
		for _, k := range klines {
			bar, err := translateKline(k)
			if err != nil {
				return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op)
			}
			all = append(all, bar)
		}
		last := klines[len(klines)-1]
		from = time.UnixMilli(last.CloseTime)
		if from.After(end) || len(klines) < maxLimit {
			break
		}
	}

	return all, nil
}

// translateKline converts a Binance kline into a domain bar. The bar
// time is the kline's open time, matching the bucket-start convention.
func translateKline(k *futures.Kline) (domain.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing open %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing high %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing low %q: %w", k.Low, err)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing close %q: %w", k.Close, err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return domain.Bar{}, fmt.Errorf("parsing volume %q: %w", k.Volume, err)
	}

	return domain.Bar{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}
