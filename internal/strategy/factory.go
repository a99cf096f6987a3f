package strategy

import (
	"fmt"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/config"
)

// New builds a strategy from configuration. defaultSize is used as the
// per-entry position size when the strategy section does not set one
// (typically backtest.max_position_size).
func New(cfg config.Strategy, defaultSize float64) (backtest.Strategy, error) {
	size := cfg.PositionSize
	if size <= 0 {
		size = defaultSize
	}

	switch cfg.Name {
	case "ma_crossover":
		return NewCrossover(CrossoverConfig{
			FastPeriod:   cfg.FastPeriod,
			SlowPeriod:   cfg.SlowPeriod,
			PositionSize: size,
		}), nil
	case "mean_reversion":
		return NewMeanReversion(MeanReversionConfig{
			Period:       cfg.Period,
			NumStd:       cfg.NumStd,
			PositionSize: size,
			StopLossPct:  cfg.StopLossPct,
		}), nil
	case "momentum":
		return NewMomentum(MomentumConfig{
			RSIPeriod:    cfg.RSIPeriod,
			Oversold:     cfg.Oversold,
			Overbought:   cfg.Overbought,
			PositionSize: size,
		}), nil
	case "trend_following":
		return NewTrendFollowing(TrendFollowingConfig{
			ADXPeriod:    cfg.ADXPeriod,
			ADXThreshold: cfg.ADXThreshold,
			MAPeriod:     cfg.MAPeriod,
			PositionSize: size,
		}), nil
	case "pairs":
		if len(cfg.PairSymbols) != 2 {
			return nil, fmt.Errorf("pairs strategy requires exactly two pair_symbols, got %d", len(cfg.PairSymbols))
		}
		return NewPairs(PairsConfig{
			SymbolA:        cfg.PairSymbols[0],
			SymbolB:        cfg.PairSymbols[1],
			LookbackPeriod: cfg.LookbackPeriod,
			EntryThreshold: cfg.EntryThreshold,
			ExitThreshold:  cfg.ExitThreshold,
			PositionSize:   size,
		}), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Name)
	}
}
