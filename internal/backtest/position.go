package backtest

import "time"

// Position is the current holding in one symbol. The model is long-only:
// quantity never goes negative and a fully sold position is removed from the
// engine's position map.
type Position struct {
	Symbol        string
	Quantity      float64
	EntryPrice    float64 // volume-weighted average cost
	CurrentPrice  float64 // last mark
	EntryTime     time.Time
	UnrealizedPnL float64
	RealizedPnL   float64
}

// MarkToMarket updates the current price and unrealized P&L without closing
// anything.
func (p *Position) MarkToMarket(price float64) {
	p.CurrentPrice = price
	p.UnrealizedPnL = (p.CurrentPrice - p.EntryPrice) * p.Quantity
}

// addFill folds a BUY fill into the position, recomputing the entry price as
// the quantity-weighted average of the old and new lots. EntryTime keeps the
// time of the first open.
func (p *Position) addFill(quantity, price float64) {
	total := p.Quantity + quantity
	p.EntryPrice = (p.Quantity*p.EntryPrice + quantity*price) / total
	p.Quantity = total
}
