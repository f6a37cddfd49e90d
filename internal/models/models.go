package models

import "fmt"

// Config holds the service configuration loaded from the JSON config file.
type Config struct {
	ListenAddr       string     `json:"listen_addr"`        // HTTP API listen address, e.g. ":8080"
	Symbol           string     `json:"symbol"`             // default trading pair, e.g. "BTCUSDT"
	BinanceAPIURL    string     `json:"binance_api_url"`    // REST base URL for the price feed
	BinanceWSURL     string     `json:"binance_ws_url"`     // WebSocket base URL for the stream feed
	FeedMode         string     `json:"feed_mode"`          // "rest" or "stream"
	TickIntervalSec  int        `json:"tick_interval_sec"`  // scheduler polling interval in seconds
	FeeRate          float64    `json:"fee_rate"`           // flat fee rate per trade leg
	DBPath           string     `json:"db_path"`            // BadgerDB directory for bot state snapshots
	TradeHistoryPath string     `json:"trade_history_path"` // sqlite file for the trade history
	DemoBalance      float64    `json:"demo_balance"`       // starting balance of the demo account
	BacktestGrid     GridConfig `json:"backtest_grid"`      // grid parameters used by backtest mode
	LogConfig        LogConfig  `json:"log"`
}

// LogConfig controls the zap logger setup.
type LogConfig struct {
	Level      string `json:"level"`       // "debug", "info", "warn", "error"
	Output     string `json:"output"`      // "console", "file", "both"
	File       string `json:"file"`        // log file path
	MaxSize    int    `json:"max_size"`    // max size of a log file in MB
	MaxBackups int    `json:"max_backups"` // max number of rotated files to keep
	MaxAge     int    `json:"max_age"`     // max age of rotated files in days
	Compress   bool   `json:"compress"`    // compress rotated files
}

// ConfigError reports an invalid GridConfig field. A ConfigError from bot
// creation means no bot was constructed.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid grid config: %s %s", e.Field, e.Msg)
}
