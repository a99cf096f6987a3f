package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Backtest Backtest `mapstructure:"backtest"`
	Strategy Strategy `mapstructure:"strategy"`
	Data     Data     `mapstructure:"data"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Backtest holds the simulation parameters.
type Backtest struct {
	InitialCapital  float64  `mapstructure:"initial_capital"`
	CommissionRate  float64  `mapstructure:"commission_rate"`
	SlippageRate    float64  `mapstructure:"slippage_rate"`
	MaxPositionSize float64  `mapstructure:"max_position_size"`
	RiskFreeRate    float64  `mapstructure:"risk_free_rate"`
	Symbols         []string `mapstructure:"symbols"`
	OutputDir       string   `mapstructure:"output_dir"`
}

// Strategy selects and parameterizes the trading strategy. Every strategy
// reads only the fields it cares about; zero values fall back to the
// strategy's own defaults.
type Strategy struct {
	Name         string  `mapstructure:"name"`
	PositionSize float64 `mapstructure:"position_size"`

	// Moving-average crossover
	FastPeriod int `mapstructure:"fast_period"`
	SlowPeriod int `mapstructure:"slow_period"`

	// Mean reversion (Bollinger bands)
	Period      int     `mapstructure:"period"`
	NumStd      float64 `mapstructure:"num_std"`
	StopLossPct float64 `mapstructure:"stop_loss_pct"`

	// Momentum (RSI)
	RSIPeriod  int     `mapstructure:"rsi_period"`
	Oversold   float64 `mapstructure:"oversold"`
	Overbought float64 `mapstructure:"overbought"`

	// Trend following (ADX)
	ADXPeriod    int     `mapstructure:"adx_period"`
	ADXThreshold float64 `mapstructure:"adx_threshold"`
	MAPeriod     int     `mapstructure:"ma_period"`

	// Pairs trading
	PairSymbols    []string `mapstructure:"pair_symbols"`
	LookbackPeriod int      `mapstructure:"lookback_period"`
	EntryThreshold float64  `mapstructure:"entry_threshold"`
	ExitThreshold  float64  `mapstructure:"exit_threshold"`
}

// Data holds the configuration for historical data loading.
type Data struct {
	Source         string  `mapstructure:"source"` // "csv" or "http"
	CSVPath        string  `mapstructure:"csv_path"`
	BaseURL        string  `mapstructure:"base_url"`
	Interval       string  `mapstructure:"interval"`
	Limit          int     `mapstructure:"limit"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Server holds the configuration for the results web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the results database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("backtest.initial_capital", 100000.0)
	viper.SetDefault("backtest.commission_rate", 0.001) // 0.1%
	viper.SetDefault("backtest.slippage_rate", 0.0005)  // 0.05%
	viper.SetDefault("backtest.max_position_size", 0.2) // 20% per position
	viper.SetDefault("backtest.risk_free_rate", 0.02)   // annual
	viper.SetDefault("backtest.output_dir", "backtest_results")
	viper.SetDefault("data.source", "csv")
	viper.SetDefault("data.interval", "1d")
	viper.SetDefault("data.limit", 500)
	viper.SetDefault("data.rate_limit", 20)      // requests per second
	viper.SetDefault("data.rate_limit_burst", 5) // burst size
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.Backtest.InitialCapital <= 0 {
		err = fmt.Errorf("backtest.initial_capital must be positive, got %f", config.Backtest.InitialCapital)
	}
	return
}
