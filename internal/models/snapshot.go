package models

import (
	"time"

	"gorm.io/gorm"
)

// SnapshotRecord is one portfolio-history point belonging to a backtest run.
type SnapshotRecord struct {
	gorm.Model
	RunID          string    `gorm:"index" json:"run_id"`
	Timestamp      time.Time `json:"timestamp"`
	Cash           float64   `json:"cash"`
	PortfolioValue float64   `json:"portfolio_value"`
	OpenPositions  int       `json:"positions"`
	TradeCount     int       `json:"num_trades"`
}
