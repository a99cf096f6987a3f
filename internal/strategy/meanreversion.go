package strategy

import (
	"time"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/marketdata"

	"github.com/markcheno/go-talib"
)

// MeanReversionConfig parameterizes the Bollinger-band strategy.
type MeanReversionConfig struct {
	Period       int
	NumStd       float64
	PositionSize float64
	StopLossPct  float64 // exit when the position loses this fraction
}

// MeanReversion buys when price touches the lower Bollinger band and sells
// when it touches the upper band or the stop loss is breached.
type MeanReversion struct {
	cfg MeanReversionConfig
}

// NewMeanReversion creates the strategy, applying defaults for unset
// parameters.
func NewMeanReversion(cfg MeanReversionConfig) *MeanReversion {
	if cfg.Period <= 0 {
		cfg.Period = 20
	}
	if cfg.NumStd <= 0 {
		cfg.NumStd = 2.0
	}
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 0.1
	}
	if cfg.StopLossPct <= 0 {
		cfg.StopLossPct = 0.05
	}
	return &MeanReversion{cfg: cfg}
}

// Name returns the unique name of the strategy.
func (s *MeanReversion) Name() string { return "mean_reversion" }

// GenerateSignals implements backtest.Strategy.
func (s *MeanReversion) GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*backtest.Position, cash float64) []backtest.OrderRequest {
	var signals []backtest.OrderRequest

	for _, symbol := range data.Symbols() {
		bars := data.History(symbol, ts)
		if len(bars) < s.cfg.Period {
			continue
		}

		closes := marketdata.Closes(bars)
		upper, _, lower := talib.BBands(closes, s.cfg.Period, s.cfg.NumStd, s.cfg.NumStd, talib.SMA)

		n := len(closes)
		currentPrice := closes[n-1]
		currentUpper, currentLower := upper[n-1], lower[n-1]

		pos, held := positions[symbol]

		if !held && currentPrice <= currentLower {
			quantity := cash * s.cfg.PositionSize / currentPrice
			if quantity > 0 {
				signals = append(signals, backtest.OrderRequest{
					Symbol:   symbol,
					Side:     backtest.SideBuy,
					Quantity: quantity,
					Type:     backtest.OrderTypeMarket,
				})
			}
		} else if held {
			pnlPct := currentPrice/pos.EntryPrice - 1
			if currentPrice >= currentUpper || pnlPct <= -s.cfg.StopLossPct {
				signals = append(signals, backtest.OrderRequest{
					Symbol:   symbol,
					Side:     backtest.SideSell,
					Quantity: pos.Quantity,
					Type:     backtest.OrderTypeMarket,
				})
			}
		}
	}

	return signals
}
