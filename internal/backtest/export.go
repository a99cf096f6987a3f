package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ExportResults persists three artifacts under dir: the trade log
// (trades.csv), the portfolio history (portfolio_history.csv) and the metric
// summary (metrics.json).
func (e *Engine) ExportResults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	if err := e.exportTrades(filepath.Join(dir, "trades.csv")); err != nil {
		return err
	}
	if err := e.exportHistory(filepath.Join(dir, "portfolio_history.csv")); err != nil {
		return err
	}
	if err := e.exportMetrics(filepath.Join(dir, "metrics.json")); err != nil {
		return err
	}

	e.logger.Info("Results exported", zap.String("dir", dir))
	return nil
}

func (e *Engine) exportTrades(path string) error {
	rows := [][]string{{
		"symbol", "side", "entry_time", "exit_time", "entry_price", "exit_price",
		"quantity", "pnl", "pnl_percent", "commission", "duration",
	}}
	for _, t := range e.trades {
		rows = append(rows, []string{
			t.Symbol,
			string(t.Side),
			t.EntryTime.Format(time.RFC3339),
			t.ExitTime.Format(time.RFC3339),
			formatFloat(t.EntryPrice),
			formatFloat(t.ExitPrice),
			formatFloat(t.Quantity),
			formatFloat(t.PnL),
			formatFloat(t.PnLPercent),
			formatFloat(t.Commission),
			t.Duration.String(),
		})
	}
	return writeCSV(path, rows)
}

func (e *Engine) exportHistory(path string) error {
	rows := [][]string{{
		"timestamp", "cash", "portfolio_value", "positions", "num_trades",
	}}
	for _, s := range e.history {
		rows = append(rows, []string{
			s.Timestamp.Format(time.RFC3339),
			formatFloat(s.Cash),
			formatFloat(s.PortfolioValue),
			strconv.Itoa(s.OpenPositions),
			strconv.Itoa(s.TradeCount),
		})
	}
	return writeCSV(path, rows)
}

func (e *Engine) exportMetrics(path string) error {
	data, err := json.MarshalIndent(e.Metrics(), "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal metrics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
