package strategy

import (
	"testing"

	"quant-backtest-go/internal/backtest"

	"github.com/stretchr/testify/assert"
)

func TestMeanReversionName(t *testing.T) {
	assert.Equal(t, "mean_reversion", NewMeanReversion(MeanReversionConfig{}).Name())
}

func TestMeanReversionInsufficientHistory(t *testing.T) {
	s := NewMeanReversion(MeanReversionConfig{Period: 20})
	data := makeDataset("X", repeat(100, 10))

	assert.Empty(t, s.GenerateSignals(data, day(9), nil, 10000))
}

// A sharp drop below the lower band triggers an entry.
func TestMeanReversionBuyAtLowerBand(t *testing.T) {
	s := NewMeanReversion(MeanReversionConfig{Period: 20, NumStd: 2, PositionSize: 0.1})
	data := makeDataset("X", append(repeat(100, 19), 80))

	signals := s.GenerateSignals(data, day(19), map[string]*backtest.Position{}, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideBuy, signals[0].Side)
	assert.InDelta(t, 10000*0.1/80, signals[0].Quantity, 1e-9)
}

// A spike above the upper band closes an open position.
func TestMeanReversionSellAtUpperBand(t *testing.T) {
	s := NewMeanReversion(MeanReversionConfig{Period: 20, NumStd: 2})
	data := makeDataset("X", append(repeat(100, 19), 120))
	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 8, EntryPrice: 100},
	}

	signals := s.GenerateSignals(data, day(19), positions, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideSell, signals[0].Side)
	assert.Equal(t, 8.0, signals[0].Quantity)
}

// A loss past the stop fraction exits even without an upper-band touch.
func TestMeanReversionStopLoss(t *testing.T) {
	s := NewMeanReversion(MeanReversionConfig{Period: 20, NumStd: 2, StopLossPct: 0.05})
	data := makeDataset("X", append(repeat(100, 19), 90))
	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 8, EntryPrice: 100},
	}

	signals := s.GenerateSignals(data, day(19), positions, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, backtest.SideSell, signals[0].Side)
}

// Price inside the bands produces no signal in either direction.
func TestMeanReversionInsideBands(t *testing.T) {
	s := NewMeanReversion(MeanReversionConfig{Period: 20, NumStd: 2})
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 99
		if i%2 == 1 {
			closes[i] = 101
		}
	}
	data := makeDataset("X", closes)

	assert.Empty(t, s.GenerateSignals(data, day(19), map[string]*backtest.Position{}, 10000))

	positions := map[string]*backtest.Position{
		"X": {Symbol: "X", Quantity: 8, EntryPrice: 100},
	}
	assert.Empty(t, s.GenerateSignals(data, day(19), positions, 10000))
}
