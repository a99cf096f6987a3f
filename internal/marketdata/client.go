package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"quant-backtest-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientInterface defines the interface for the historical kline client.
type ClientInterface interface {
	GetKlines(symbol, interval string, limit int) ([]Bar, error)
	GetDataset(symbols []string, interval string, limit int) (*Dataset, error)
}

// Client fetches historical klines from a Binance-compatible REST endpoint.
// It implements the ClientInterface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new kline client.
func NewClient(cfg *config.Data, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// GetKlines fetches up to limit historical bars for one symbol.
func (c *Client) GetKlines(symbol, interval string, limit int) ([]Bar, error) {
	if err := c.limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("rate limiter failed: %w", err)
	}

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"symbol":   symbol,
			"interval": interval,
			"limit":    strconv.Itoa(limit),
		}).
		Get("/klines")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("klines request for %s returned status %d: %s", symbol, resp.StatusCode(), resp.String())
	}

	// Binance kline rows are positional arrays:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var rows [][]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode klines for %s: %w", symbol, err)
	}

	bars := make([]Bar, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("malformed kline row for %s: %d fields", symbol, len(row))
		}
		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("failed to parse kline open time for %s: %w", symbol, err)
		}
		b := Bar{
			Timestamp: time.UnixMilli(openTime).UTC(),
			Symbol:    symbol,
		}
		fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume}
		for i, dst := range fields {
			var s string
			if err := json.Unmarshal(row[i+1], &s); err != nil {
				return nil, fmt.Errorf("failed to parse kline field for %s: %w", symbol, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse kline value %q for %s: %w", s, symbol, err)
			}
			*dst = v
		}
		bars = append(bars, b)
	}

	c.logger.Debug("Fetched klines",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("bars", len(bars)))
	return bars, nil
}

// GetDataset fetches klines for every symbol and assembles a dataset.
func (c *Client) GetDataset(symbols []string, interval string, limit int) (*Dataset, error) {
	var all []Bar
	for _, symbol := range symbols {
		bars, err := c.GetKlines(symbol, interval, limit)
		if err != nil {
			return nil, fmt.Errorf("could not fetch klines for %s: %w", symbol, err)
		}
		all = append(all, bars...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no bars returned for symbols %v", symbols)
	}
	return NewDataset(all), nil
}
