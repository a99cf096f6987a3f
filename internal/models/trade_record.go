package models

import (
	"time"

	"gorm.io/gorm"
)

// TradeRecord is one completed round-trip belonging to a backtest run.
type TradeRecord struct {
	gorm.Model
	RunID      string    `gorm:"index" json:"run_id"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	PnL        float64   `json:"pnl"`
	PnLPercent float64   `json:"pnl_percent"`
	Commission float64   `json:"commission"`
	Duration   int64     `json:"duration_seconds"`
}
