package backtest

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportResults(t *testing.T) {
	data := series("X", 100, 100, 110, 110)
	script := map[int][]OrderRequest{
		0: {{Symbol: "X", Side: SideBuy, Quantity: 10, Type: OrderTypeMarket}},
		2: {{Symbol: "X", Side: SideSell, Quantity: 10, Type: OrderTypeMarket}},
	}

	e := testEngine(t, Config{InitialCapital: 10000, CommissionRate: 0.001})
	_, err := e.Run(&scriptedStrategy{script: script}, data, []string{"X"})
	assert.NoError(t, err)

	dir := t.TempDir()
	assert.NoError(t, e.ExportResults(dir))

	trades := readCSVFile(t, filepath.Join(dir, "trades.csv"))
	assert.Equal(t, []string{
		"symbol", "side", "entry_time", "exit_time", "entry_price", "exit_price",
		"quantity", "pnl", "pnl_percent", "commission", "duration",
	}, trades[0])
	assert.Len(t, trades, 2) // header plus one round trip
	assert.Equal(t, "X", trades[1][0])
	assert.Equal(t, "SELL", trades[1][1])

	history := readCSVFile(t, filepath.Join(dir, "portfolio_history.csv"))
	assert.Equal(t, []string{"timestamp", "cash", "portfolio_value", "positions", "num_trades"}, history[0])
	assert.Len(t, history, 5) // header plus one row per bar

	raw, err := os.ReadFile(filepath.Join(dir, "metrics.json"))
	assert.NoError(t, err)
	var metrics map[string]any
	assert.NoError(t, json.Unmarshal(raw, &metrics))
	for _, key := range []string{
		"initial_value", "final_value", "total_return", "annual_return",
		"annual_volatility", "sharpe_ratio", "max_drawdown", "total_trades",
		"winning_trades", "losing_trades", "win_rate", "avg_win", "avg_loss",
		"profit_factor", "total_commission",
	} {
		assert.Contains(t, metrics, key)
	}
	assert.Equal(t, float64(10000), metrics["initial_value"])
	assert.Equal(t, float64(1), metrics["total_trades"])
}

func TestExportResultsEmptyRun(t *testing.T) {
	e := testEngine(t, Config{InitialCapital: 10000})

	dir := t.TempDir()
	assert.NoError(t, e.ExportResults(dir))

	trades := readCSVFile(t, filepath.Join(dir, "trades.csv"))
	assert.Len(t, trades, 1) // header only
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}
