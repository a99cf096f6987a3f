package strategy

import (
	"testing"

	"quant-backtest-go/internal/backtest"

	"github.com/stretchr/testify/assert"
)

func TestPairsName(t *testing.T) {
	assert.Equal(t, "pairs", NewPairs(PairsConfig{}).Name())
}

func TestPairsInsufficientHistory(t *testing.T) {
	s := NewPairs(PairsConfig{SymbolA: "A", SymbolB: "B", LookbackPeriod: 30})
	data := makePairDataset("A", repeat(100, 10), "B", repeat(100, 10))

	assert.Nil(t, s.GenerateSignals(data, day(9), nil, 10000))
}

// Two perfectly identical series leave the spread with zero variance; no
// z-score is defined and no trade fires.
func TestPairsDegenerateSpread(t *testing.T) {
	s := NewPairs(PairsConfig{SymbolA: "A", SymbolB: "B", LookbackPeriod: 30})
	data := makePairDataset("A", repeat(100, 30), "B", repeat(100, 30))

	assert.Nil(t, s.GenerateSignals(data, day(29), map[string]*backtest.Position{}, 10000))
}

// Symbol A jumping away from B pushes the z-score far positive: sell the rich
// leg (only if held, the engine is long-only) and buy the cheap one.
func TestPairsEntryOnHighSpread(t *testing.T) {
	s := NewPairs(PairsConfig{SymbolA: "A", SymbolB: "B", LookbackPeriod: 30, EntryThreshold: 2, ExitThreshold: 0.5, PositionSize: 0.1})
	data := makePairDataset("A", append(repeat(100, 29), 110), "B", repeat(100, 30))

	// Flat book: only the long leg is actionable.
	signals := s.GenerateSignals(data, day(29), map[string]*backtest.Position{}, 10000)
	assert.Len(t, signals, 1)
	assert.Equal(t, "B", signals[0].Symbol)
	assert.Equal(t, backtest.SideBuy, signals[0].Side)
	assert.InDelta(t, 10000*0.1/(110+100), signals[0].Quantity, 1e-9)

	// Holding A as well: both legs trade.
	positions := map[string]*backtest.Position{
		"A": {Symbol: "A", Quantity: 4, EntryPrice: 100},
	}
	signals = s.GenerateSignals(data, day(29), positions, 10000)
	assert.Len(t, signals, 2)
	assert.Equal(t, "A", signals[0].Symbol)
	assert.Equal(t, backtest.SideSell, signals[0].Side)
	assert.Equal(t, "B", signals[1].Symbol)
	assert.Equal(t, backtest.SideBuy, signals[1].Side)
}

// Symbol A dropping away from B pushes the z-score far negative: buy A, sell
// any B holding.
func TestPairsEntryOnLowSpread(t *testing.T) {
	s := NewPairs(PairsConfig{SymbolA: "A", SymbolB: "B", LookbackPeriod: 30, EntryThreshold: 2, ExitThreshold: 0.5, PositionSize: 0.1})
	data := makePairDataset("A", append(repeat(100, 29), 90), "B", repeat(100, 30))
	positions := map[string]*backtest.Position{
		"B": {Symbol: "B", Quantity: 5, EntryPrice: 100},
	}

	signals := s.GenerateSignals(data, day(29), positions, 10000)
	assert.Len(t, signals, 2)
	assert.Equal(t, "A", signals[0].Symbol)
	assert.Equal(t, backtest.SideBuy, signals[0].Side)
	assert.Equal(t, "B", signals[1].Symbol)
	assert.Equal(t, backtest.SideSell, signals[1].Side)
	assert.Equal(t, 5.0, signals[1].Quantity)
}

// Once the spread reverts inside the exit threshold, both legs are flattened.
func TestPairsExitOnReversion(t *testing.T) {
	s := NewPairs(PairsConfig{SymbolA: "A", SymbolB: "B", LookbackPeriod: 30, EntryThreshold: 2, ExitThreshold: 0.5})

	// Noisy but centered spread whose final value sits at the mean.
	closesA := make([]float64, 30)
	for i := range closesA {
		closesA[i] = 102
		if i%2 == 1 {
			closesA[i] = 98
		}
	}
	closesA[29] = 100
	data := makePairDataset("A", closesA, "B", repeat(100, 30))

	positions := map[string]*backtest.Position{
		"A": {Symbol: "A", Quantity: 4, EntryPrice: 100},
		"B": {Symbol: "B", Quantity: 5, EntryPrice: 100},
	}
	signals := s.GenerateSignals(data, day(29), positions, 10000)
	assert.Len(t, signals, 2)
	for _, sig := range signals {
		assert.Equal(t, backtest.SideSell, sig.Side)
	}

	// Nothing to flatten, nothing emitted.
	assert.Empty(t, s.GenerateSignals(data, day(29), map[string]*backtest.Position{}, 10000))
}
