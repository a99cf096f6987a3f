package marketdata

import (
	"sort"
	"time"
)

// Bar is a single OHLCV observation for one symbol at one timestamp.
type Bar struct {
	Timestamp time.Time
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Dataset holds historical bars indexed by (timestamp, symbol). Bars are kept
// in ascending timestamp order per symbol, and the set of unique timestamps
// across all symbols is kept in ascending order as well. A symbol does not
// have to quote at every timestamp.
type Dataset struct {
	timestamps []time.Time
	symbols    []string
	bars       map[string][]Bar
	index      map[string]map[int64]int
}

// NewDataset builds a dataset from an arbitrary slice of bars.
func NewDataset(bars []Bar) *Dataset {
	d := &Dataset{
		bars:  make(map[string][]Bar),
		index: make(map[string]map[int64]int),
	}

	seen := make(map[int64]struct{})
	for _, b := range bars {
		d.bars[b.Symbol] = append(d.bars[b.Symbol], b)
		if _, ok := seen[b.Timestamp.UnixNano()]; !ok {
			seen[b.Timestamp.UnixNano()] = struct{}{}
			d.timestamps = append(d.timestamps, b.Timestamp)
		}
	}
	sort.Slice(d.timestamps, func(i, j int) bool { return d.timestamps[i].Before(d.timestamps[j]) })

	for sym, sb := range d.bars {
		sort.Slice(sb, func(i, j int) bool { return sb[i].Timestamp.Before(sb[j].Timestamp) })
		idx := make(map[int64]int, len(sb))
		for i, b := range sb {
			idx[b.Timestamp.UnixNano()] = i
		}
		d.bars[sym] = sb
		d.index[sym] = idx
		d.symbols = append(d.symbols, sym)
	}
	sort.Strings(d.symbols)

	return d
}

// Timestamps returns every unique timestamp in ascending order.
func (d *Dataset) Timestamps() []time.Time {
	return d.timestamps
}

// Symbols returns the symbols present in the dataset, sorted.
func (d *Dataset) Symbols() []string {
	return d.symbols
}

// Len returns the number of unique timestamps.
func (d *Dataset) Len() int {
	return len(d.timestamps)
}

// Bar returns the bar for symbol at exactly ts.
func (d *Dataset) Bar(symbol string, ts time.Time) (Bar, bool) {
	idx, ok := d.index[symbol]
	if !ok {
		return Bar{}, false
	}
	i, ok := idx[ts.UnixNano()]
	if !ok {
		return Bar{}, false
	}
	return d.bars[symbol][i], true
}

// Close returns the closing price for symbol at exactly ts.
func (d *Dataset) Close(symbol string, ts time.Time) (float64, bool) {
	b, ok := d.Bar(symbol, ts)
	if !ok {
		return 0, false
	}
	return b.Close, true
}

// History returns every bar for symbol up to and including ts, ascending.
// The returned slice aliases the dataset and must not be modified.
func (d *Dataset) History(symbol string, ts time.Time) []Bar {
	sb, ok := d.bars[symbol]
	if !ok {
		return nil
	}
	n := sort.Search(len(sb), func(i int) bool { return sb[i].Timestamp.After(ts) })
	return sb[:n]
}

// Closes extracts the closing prices of a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high prices of a bar slice.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low prices of a bar slice.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}
