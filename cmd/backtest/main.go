package main

import (
	"fmt"
	"os"

	"quant-backtest-go/internal/backtest"
	"quant-backtest-go/internal/config"
	"quant-backtest-go/internal/database"
	"quant-backtest-go/internal/logger"
	"quant-backtest-go/internal/marketdata"
	"quant-backtest-go/internal/strategy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Load historical data
	data, err := loadData(&cfg, log)
	if err != nil {
		log.Fatal("Failed to load historical data", zap.Error(err))
	}
	symbols := cfg.Backtest.Symbols
	if len(symbols) == 0 {
		symbols = data.Symbols()
	}
	log.Info("Historical data loaded",
		zap.Int("bars", data.Len()),
		zap.Strings("symbols", symbols))

	// Build the strategy from config
	strat, err := strategy.New(cfg.Strategy, cfg.Backtest.MaxPositionSize)
	if err != nil {
		log.Fatal("Failed to build strategy", zap.Error(err))
	}
	log.Info("Strategy selected", zap.String("strategy", strat.Name()))

	// Run the backtest
	engine, err := backtest.NewEngine(log, backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		CommissionRate: cfg.Backtest.CommissionRate,
		SlippageRate:   cfg.Backtest.SlippageRate,
		RiskFreeRate:   cfg.Backtest.RiskFreeRate,
	})
	if err != nil {
		log.Fatal("Failed to create engine", zap.Error(err))
	}

	results, err := engine.Run(strat, data, symbols)
	if err != nil {
		log.Fatal("Backtest failed", zap.Error(err))
	}

	// Export file artifacts
	if err := engine.ExportResults(cfg.Backtest.OutputDir); err != nil {
		log.Fatal("Failed to export results", zap.Error(err))
	}

	// Persist the run when a database is configured
	if cfg.Database.DSN != "" {
		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		runID := uuid.NewString()
		if err := database.SaveRun(db, runID, strat.Name(), symbols, results, engine.Trades(), engine.History()); err != nil {
			log.Fatal("Failed to persist run", zap.Error(err))
		}
		log.Info("Run persisted", zap.String("run_id", runID))
	}
}

// loadData builds the dataset from the configured source.
func loadData(cfg *config.Config, log *zap.Logger) (*marketdata.Dataset, error) {
	switch cfg.Data.Source {
	case "csv":
		return marketdata.LoadCSV(cfg.Data.CSVPath)
	case "http":
		client := marketdata.NewClient(&cfg.Data, log)
		return client.GetDataset(cfg.Backtest.Symbols, cfg.Data.Interval, cfg.Data.Limit)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
