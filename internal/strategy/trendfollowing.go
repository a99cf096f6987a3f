package strategy

import (
	"time"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/marketdata"

	"github.com/markcheno/go-talib"
)

// TrendFollowingConfig parameterizes the ADX trend strategy.
type TrendFollowingConfig struct {
	ADXPeriod    int
	ADXThreshold float64
	MAPeriod     int
	PositionSize float64
}

// TrendFollowing enters when the trend is strong (ADX above threshold) and
// price confirms the direction against a moving average; it exits when the
// trend weakens or reverses.
type TrendFollowing struct {
	cfg TrendFollowingConfig
}

// NewTrendFollowing creates the strategy, applying defaults for unset
// parameters.
func NewTrendFollowing(cfg TrendFollowingConfig) *TrendFollowing {
	if cfg.ADXPeriod <= 0 {
		cfg.ADXPeriod = 14
	}
	if cfg.ADXThreshold <= 0 {
		cfg.ADXThreshold = 25
	}
	if cfg.MAPeriod <= 0 {
		cfg.MAPeriod = 20
	}
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 0.15
	}
	return &TrendFollowing{cfg: cfg}
}

// Name returns the unique name of the strategy.
func (s *TrendFollowing) Name() string { return "trend_following" }

// GenerateSignals implements backtest.Strategy.
func (s *TrendFollowing) GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*backtest.Position, cash float64) []backtest.OrderRequest {
	var signals []backtest.OrderRequest

	minBars := 2 * s.cfg.ADXPeriod
	if s.cfg.MAPeriod > minBars {
		minBars = s.cfg.MAPeriod
	}

	for _, symbol := range data.Symbols() {
		bars := data.History(symbol, ts)
		if len(bars) < minBars {
			continue
		}

		closes := marketdata.Closes(bars)
		adx := talib.Adx(marketdata.Highs(bars), marketdata.Lows(bars), closes, s.cfg.ADXPeriod)
		ma := talib.Sma(closes, s.cfg.MAPeriod)

		n := len(closes)
		currentADX := adx[n-1]
		currentMA := ma[n-1]
		currentPrice := closes[n-1]

		pos, held := positions[symbol]

		if currentADX > s.cfg.ADXThreshold {
			if currentPrice > currentMA && !held {
				quantity := cash * s.cfg.PositionSize / currentPrice
				if quantity > 0 {
					signals = append(signals, backtest.OrderRequest{
						Symbol:   symbol,
						Side:     backtest.SideBuy,
						Quantity: quantity,
						Type:     backtest.OrderTypeMarket,
					})
				}
			} else if currentPrice < currentMA && held {
				signals = append(signals, backtest.OrderRequest{
					Symbol:   symbol,
					Side:     backtest.SideSell,
					Quantity: pos.Quantity,
					Type:     backtest.OrderTypeMarket,
				})
			}
		} else if currentADX < s.cfg.ADXThreshold && held {
			// Weak trend: step aside.
			signals = append(signals, backtest.OrderRequest{
				Symbol:   symbol,
				Side:     backtest.SideSell,
				Quantity: pos.Quantity,
				Type:     backtest.OrderTypeMarket,
			})
		}
	}

	return signals
}
