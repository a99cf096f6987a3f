package strategy

import (
	"time"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/marketdata"

	"github.com/markcheno/go-talib"
)

// CrossoverConfig parameterizes the moving-average crossover strategy.
type CrossoverConfig struct {
	FastPeriod   int
	SlowPeriod   int
	PositionSize float64 // fraction of available cash per entry
}

// Crossover buys when the fast moving average crosses above the slow one and
// sells the whole position when it crosses back below.
type Crossover struct {
	cfg CrossoverConfig
}

// NewCrossover creates the strategy, applying defaults for unset parameters.
func NewCrossover(cfg CrossoverConfig) *Crossover {
	if cfg.FastPeriod <= 0 {
		cfg.FastPeriod = 20
	}
	if cfg.SlowPeriod <= 0 {
		cfg.SlowPeriod = 50
	}
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 0.1
	}
	return &Crossover{cfg: cfg}
}

// Name returns the unique name of the strategy.
func (s *Crossover) Name() string { return "ma_crossover" }

// GenerateSignals implements backtest.Strategy.
func (s *Crossover) GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*backtest.Position, cash float64) []backtest.OrderRequest {
	var signals []backtest.OrderRequest

	for _, symbol := range data.Symbols() {
		bars := data.History(symbol, ts)
		// One extra bar so both the current and previous averages are
		// fully formed.
		if len(bars) < s.cfg.SlowPeriod+1 {
			continue
		}

		closes := marketdata.Closes(bars)
		fast := talib.Sma(closes, s.cfg.FastPeriod)
		slow := talib.Sma(closes, s.cfg.SlowPeriod)

		n := len(closes)
		currentFast, currentSlow := fast[n-1], slow[n-1]
		prevFast, prevSlow := fast[n-2], slow[n-2]
		currentPrice := closes[n-1]

		bullishCross := prevFast <= prevSlow && currentFast > currentSlow
		bearishCross := prevFast >= prevSlow && currentFast < currentSlow

		_, held := positions[symbol]

		if bullishCross && !held {
			quantity := cash * s.cfg.PositionSize / currentPrice
			if quantity > 0 {
				signals = append(signals, backtest.OrderRequest{
					Symbol:   symbol,
					Side:     backtest.SideBuy,
					Quantity: quantity,
					Type:     backtest.OrderTypeMarket,
				})
			}
		} else if bearishCross && held {
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
