package database

import (
	"fmt"
	"strings"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/models"

	"gorm.io/gorm"
)

// SaveRun persists one completed backtest — its metric summary, trade log and
// portfolio history — in a single transaction.
func SaveRun(db *gorm.DB, runID, strategyName string, symbols []string, results backtest.Results, trades []backtest.Trade, history []backtest.Snapshot) error {
	run := models.BacktestRun{
		RunID:            runID,
		Strategy:         strategyName,
		Symbols:          strings.Join(symbols, ","),
		InitialValue:     results.InitialValue,
		FinalValue:       results.FinalValue,
		TotalReturn:      results.TotalReturn,
		AnnualReturn:     results.AnnualReturn,
		AnnualVolatility: results.AnnualVolatility,
		SharpeRatio:      results.SharpeRatio,
		MaxDrawdown:      results.MaxDrawdown,
		TotalTrades:      results.TotalTrades,
		WinningTrades:    results.WinningTrades,
		LosingTrades:     results.LosingTrades,
		WinRate:          results.WinRate,
		AvgWin:           results.AvgWin,
		AvgLoss:          results.AvgLoss,
		ProfitFactor:     results.ProfitFactor,
		TotalCommission:  results.TotalCommission,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}

		for _, t := range trades {
			record := models.TradeRecord{
				RunID:      runID,
				Symbol:     t.Symbol,
				Side:       string(t.Side),
				EntryTime:  t.EntryTime,
				ExitTime:   t.ExitTime,
				EntryPrice: t.EntryPrice,
				ExitPrice:  t.ExitPrice,
				Quantity:   t.Quantity,
				PnL:        t.PnL,
				PnLPercent: t.PnLPercent,
				Commission: t.Commission,
				Duration:   int64(t.Duration.Seconds()),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to save trade record: %w", err)
			}
		}

		for _, s := range history {
			record := models.SnapshotRecord{
				RunID:          runID,
				Timestamp:      s.Timestamp,
				Cash:           s.Cash,
				PortfolioValue: s.PortfolioValue,
				OpenPositions:  s.OpenPositions,
				TradeCount:     s.TradeCount,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to save snapshot record: %w", err)
			}
		}

		return nil
	})
}
