package models

import "gorm.io/gorm"

// BacktestRun stores the metric summary of one completed backtest.
type BacktestRun struct {
	gorm.Model
	RunID            string  `gorm:"uniqueIndex" json:"run_id"`
	Strategy         string  `json:"strategy"`
	Symbols          string  `json:"symbols"` // comma-separated
	InitialValue     float64 `json:"initial_value"`
	FinalValue       float64 `json:"final_value"`
	TotalReturn      float64 `json:"total_return"`
	AnnualReturn     float64 `json:"annual_return"`
	AnnualVolatility float64 `json:"annual_volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	TotalTrades      int     `json:"total_trades"`
	WinningTrades    int     `json:"winning_trades"`
	LosingTrades     int     `json:"losing_trades"`
	WinRate          float64 `json:"win_rate"`
	AvgWin           float64 `json:"avg_win"`
	AvgLoss          float64 `json:"avg_loss"`
	ProfitFactor     float64 `json:"profit_factor"`
	TotalCommission  float64 `json:"total_commission"`
}
