package strategy

import (
	"time"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/marketdata"

	"github.com/markcheno/go-talib"
)

// MomentumConfig parameterizes the RSI momentum strategy.
type MomentumConfig struct {
	RSIPeriod    int
	Oversold     float64
	Overbought   float64
	PositionSize float64
}

// Momentum buys when RSI crosses up through the oversold level and sells when
// it crosses down through the overbought level.
type Momentum struct {
	cfg MomentumConfig
}

// NewMomentum creates the strategy, applying defaults for unset parameters.
func NewMomentum(cfg MomentumConfig) *Momentum {
	if cfg.RSIPeriod <= 0 {
		cfg.RSIPeriod = 14
	}
	if cfg.Oversold <= 0 {
		cfg.Oversold = 30
	}
	if cfg.Overbought <= 0 {
		cfg.Overbought = 70
	}
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 0.1
	}
	return &Momentum{cfg: cfg}
}

// Name returns the unique name of the strategy.
func (s *Momentum) Name() string { return "momentum" }

// GenerateSignals implements backtest.Strategy.
func (s *Momentum) GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*backtest.Position, cash float64) []backtest.OrderRequest {
	var signals []backtest.OrderRequest

	for _, symbol := range data.Symbols() {
		bars := data.History(symbol, ts)
		// Both the current and previous RSI values must be past the
		// indicator warmup.
		if len(bars) < s.cfg.RSIPeriod+2 {
			continue
		}

		closes := marketdata.Closes(bars)
		rsi := talib.Rsi(closes, s.cfg.RSIPeriod)

		n := len(closes)
		currentRSI, prevRSI := rsi[n-1], rsi[n-2]
		currentPrice := closes[n-1]

		_, held := positions[symbol]

		if prevRSI <= s.cfg.Oversold && currentRSI > s.cfg.Oversold && !held {
			quantity := cash * s.cfg.PositionSize / currentPrice
			if quantity > 0 {
				signals = append(signals, backtest.OrderRequest{
					Symbol:   symbol,
					Side:     backtest.SideBuy,
					Quantity: quantity,
					Type:     backtest.OrderTypeMarket,
				})
			}
		} else if prevRSI >= s.cfg.Overbought && currentRSI < s.cfg.Overbought && held {
			signals = append(signals, backtest.OrderRequest{
				Symbol:   symbol,
				Side:     backtest.SideSell,
				Quantity: positions[symbol].Quantity,
				Type:     backtest.OrderTypeMarket,
			})
		}
	}

	return signals
}
