package strategy

import (
	"time"

	"quant-backtest-go/internal/marketdata"
)

func day(n int) time.Time {
	return time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// makeDataset builds a single-symbol dataset of daily bars with a one-point
// range around each close.
func makeDataset(symbol string, closes []float64) *marketdata.Dataset {
	bars := make([]marketdata.Bar, len(closes))
	for i, c := range closes {
		bars[i] = marketdata.Bar{
			Timestamp: day(i),
			Symbol:    symbol,
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
		}
	}
	return marketdata.NewDataset(bars)
}

// makePairDataset builds a two-symbol dataset; both series share timestamps.
func makePairDataset(symbolA string, closesA []float64, symbolB string, closesB []float64) *marketdata.Dataset {
	var bars []marketdata.Bar
	for i, c := range closesA {
		bars = append(bars, marketdata.Bar{Timestamp: day(i), Symbol: symbolA, Open: c, High: c + 1, Low: c - 1, Close: c})
	}
	for i, c := range closesB {
		bars = append(bars, marketdata.Bar{Timestamp: day(i), Symbol: symbolB, Open: c, High: c + 1, Low: c - 1, Close: c})
	}
	return marketdata.NewDataset(bars)
}

// repeat returns n copies of v.
func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
