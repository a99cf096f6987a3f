package backtest

import "time"

// Trade is a completed round-trip, emitted once per SELL fill against an open
// position. Partial sells produce partial trades, each priced against the
// position's average entry price at the time of the sale. Immutable once
// recorded.
type Trade struct {
	Symbol     string
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	PnL        float64 // net of commission
	PnLPercent float64
	Commission float64
	Side       Side
	Duration   time.Duration
}

// Snapshot is one portfolio-state record per simulated timestamp.
type Snapshot struct {
	Timestamp      time.Time
	Cash           float64
	PortfolioValue float64
	OpenPositions  int
	TradeCount     int
}
