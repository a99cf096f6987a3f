package main

import (
	"errors"
	"net/http"

	"quant-backtest-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// Health reports liveness.
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRuns returns every persisted backtest run, most recent first.
func (h *APIHandler) ListRuns(c *gin.Context) {
	var runs []models.BacktestRun
	if err := h.db.Order("created_at desc").Find(&runs).Error; err != nil {
		h.log.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun returns the metric summary of one run.
func (h *APIHandler) GetRun(c *gin.Context) {
	var run models.BacktestRun
	err := h.db.Where("run_id = ?", c.Param("id")).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to get run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunTrades returns the trade log of one run in execution order.
func (h *APIHandler) GetRunTrades(c *gin.Context) {
	var trades []models.TradeRecord
	if err := h.db.Where("run_id = ?", c.Param("id")).Order("exit_time asc").Find(&trades).Error; err != nil {
		h.log.Error("Failed to get trades", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get trades"})
		return
	}
	c.JSON(http.StatusOK, trades)
}

// GetRunHistory returns the portfolio history of one run in time order.
func (h *APIHandler) GetRunHistory(c *gin.Context) {
	var history []models.SnapshotRecord
	if err := h.db.Where("run_id = ?", c.Param("id")).Order("timestamp asc").Find(&history).Error; err != nil {
		h.log.Error("Failed to get history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
