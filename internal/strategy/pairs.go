package strategy

import (
	"math"
	"time"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/marketdata"
)

// PairsConfig parameterizes the pairs-trading strategy.
type PairsConfig struct {
	SymbolA        string
	SymbolB        string
	LookbackPeriod int
	EntryThreshold float64 // z-score to enter
	ExitThreshold  float64 // z-score to exit
	PositionSize   float64
}

// Pairs trades the mean-reverting spread between two correlated symbols.
// When the z-score of the spread exceeds the entry threshold, the rich leg is
// sold and the cheap leg bought; when it reverts inside the exit threshold,
// both legs are closed. The engine is long-only, so the short leg reduces to
// selling an existing holding.
type Pairs struct {
	cfg PairsConfig
}

// NewPairs creates the strategy, applying defaults for unset parameters.
func NewPairs(cfg PairsConfig) *Pairs {
	if cfg.LookbackPeriod <= 0 {
		cfg.LookbackPeriod = 30
	}
	if cfg.EntryThreshold <= 0 {
		cfg.EntryThreshold = 2.0
	}
	if cfg.ExitThreshold <= 0 {
		cfg.ExitThreshold = 0.5
	}
	if cfg.PositionSize <= 0 {
		cfg.PositionSize = 0.1
	}
	return &Pairs{cfg: cfg}
}

// Name returns the unique name of the strategy.
func (s *Pairs) Name() string { return "pairs" }

// GenerateSignals implements backtest.Strategy.
func (s *Pairs) GenerateSignals(data *marketdata.Dataset, ts time.Time, positions map[string]*backtest.Position, cash float64) []backtest.OrderRequest {
	var signals []backtest.OrderRequest

	barsA := data.History(s.cfg.SymbolA, ts)
	barsB := data.History(s.cfg.SymbolB, ts)
	if len(barsA) < s.cfg.LookbackPeriod || len(barsB) < s.cfg.LookbackPeriod {
		return nil
	}

	// Spread over the trailing lookback window, aligned from the tail.
	spread := make([]float64, s.cfg.LookbackPeriod)
	for i := 0; i < s.cfg.LookbackPeriod; i++ {
		a := barsA[len(barsA)-s.cfg.LookbackPeriod+i].Close
		b := barsB[len(barsB)-s.cfg.LookbackPeriod+i].Close
		spread[i] = a - b
	}

	m := mean(spread)
	sd := stddev(spread, m)
	if sd == 0 {
		// Degenerate spread, no tradable signal.
		return nil
	}
	zScore := (spread[len(spread)-1] - m) / sd

	priceA := barsA[len(barsA)-1].Close
	priceB := barsB[len(barsB)-1].Close

	posA, heldA := positions[s.cfg.SymbolA]
	posB, heldB := positions[s.cfg.SymbolB]

	switch {
	case math.Abs(zScore) > s.cfg.EntryThreshold:
		quantity := cash * s.cfg.PositionSize / (priceA + priceB)
		if quantity <= 0 {
			return nil
		}
		if zScore > 0 {
			// Spread too high: sell A, buy B.
			if heldA {
				signals = append(signals, sellMarket(s.cfg.SymbolA, quantity))
			}
			if !heldB {
				signals = append(signals, buyMarket(s.cfg.SymbolB, quantity))
			}
		} else {
			// Spread too low: buy A, sell B.
			if !heldA {
				signals = append(signals, buyMarket(s.cfg.SymbolA, quantity))
			}
			if heldB {
				signals = append(signals, sellMarket(s.cfg.SymbolB, posB.Quantity))
			}
		}

	case math.Abs(zScore) < s.cfg.ExitThreshold:
		// Spread reverted: flatten both legs.
		if heldA {
			signals = append(signals, sellMarket(s.cfg.SymbolA, posA.Quantity))
		}
		if heldB {
			signals = append(signals, sellMarket(s.cfg.SymbolB, posB.Quantity))
		}
	}

	return signals
}

func buyMarket(symbol string, quantity float64) backtest.OrderRequest {
	return backtest.OrderRequest{
		Symbol:   symbol,
		Side:     backtest.SideBuy,
		Quantity: quantity,
		Type:     backtest.OrderTypeMarket,
	}
}

func sellMarket(symbol string, quantity float64) backtest.OrderRequest {
	return backtest.OrderRequest{
		Symbol:   symbol,
		Side:     backtest.SideSell,
		Quantity: quantity,
		Type:     backtest.OrderTypeMarket,
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
