package strategy

import (
	"testing"

	"quant-backtest-go/internal/backtest"

	"github.com/stretchr/testify/assert"
)

func TestTrendFollowingName(t *testing.T) {
	assert.Equal(t, "trend_following", NewTrendFollowing(TrendFollowingConfig{}).Name())
}

func TestTrendFollowingInsufficientHistory(t *testing.T) {
	s := NewTrendFollowing(TrendFollowingConfig{ADXPeriod: 14, MAPeriod: 20})
	data := makeDataset("X", repeat(100, 20)) // needs 2*ADXPeriod bars

	assert.Empty(t, s.GenerateSignals(data, day(19), nil, 10000))
}

func uptrend(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func downtrend(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(n-i)
	}
	return out
}

// A clean monotonic rise maximizes ADX; price above the moving average
// confirms the direction.
func TestTrendFollowingBuysStrongUptrend(t *testing.T) {
	s := NewTrendFollowing(TrendFollowingConfig{ADXPeriod: 14, ADXThreshold: 25, MAPeriod: 20, PositionSize: 0.15})
	data := makeDataset("X", uptrend(40))

	signals := s.GenerateSignals(data, day(39), map[string]*backtest.Position{}, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideBuy, signals[0].Side)
	assert.InDelta(t, 10000*0.15/139, signals[0].Quantity, 1e-9)

	// Holding already, the same trend produces nothing new.
	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 3, EntryPrice: 120},
	}
	assert.Empty(t, s.GenerateSignals(data, day(39), positions, 10000))
}

func TestTrendFollowingSellsStrongDowntrend(t *testing.T) {
	s := NewTrendFollowing(TrendFollowingConfig{ADXPeriod: 14, ADXThreshold: 25, MAPeriod: 20})
	data := makeDataset("X", downtrend(40))
	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 3, EntryPrice: 130},
	}

	signals := s.GenerateSignals(data, day(39), positions, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideSell, signals[0].Side)
	assert.Equal(t, 3.0, signals[0].Quantity)

	// A downtrend with no position to unload is ignored.
	assert.Empty(t, s.GenerateSignals(data, day(39), map[string]*backtest.Position{}, 10000))
}

// Choppy sideways movement keeps ADX low; an open position is closed when the
// trend weakens.
func TestTrendFollowingExitsWeakTrend(t *testing.T) {
	s := NewTrendFollowing(TrendFollowingConfig{ADXPeriod: 14, ADXThreshold: 25, MAPeriod: 20})
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
		if i%2 == 1 {
			closes[i] = 102
		}
	}
	data := makeDataset("X", closes)
	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 3, EntryPrice: 101},
	}

	signals := s.GenerateSignals(data, day(39), positions, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideSell, signals[0].Side)
}
