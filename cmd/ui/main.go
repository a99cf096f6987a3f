package main

import (
	"fmt"
	"os"

	"quant-backtest-go/internal/config"
	"quant-backtest-go/internal/database"
	"quant-backtest-go/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewAPIHandler(log, db)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/runs", handler.ListRuns)
		api.GET("/runs/:id", handler.GetRun)
		api.GET("/runs/:id/trades", handler.GetRunTrades)
		api.GET("/runs/:id/history", handler.GetRunHistory)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting results server", zap.String("address", addr))

	if err := router.Run(addr); err != nil {
		log.Fatal("Results server failed", zap.Error(err))
	}
}
