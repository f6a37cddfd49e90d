package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// LoadConfig reads the JSON config file at path and applies defaults for
// fields left unset.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &models.Config{}
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "BTCUSDT"
	}
	if cfg.BinanceAPIURL == "" {
		cfg.BinanceAPIURL = "https://api.binance.com"
	}
	if cfg.BinanceWSURL == "" {
		cfg.BinanceWSURL = "wss://stream.binance.com:9443"
	}
	if cfg.FeedMode == "" {
		cfg.FeedMode = "rest"
	}
	if cfg.TickIntervalSec <= 0 {
		cfg.TickIntervalSec = 5
	}
	if cfg.FeeRate <= 0 {
		cfg.FeeRate = 0.001
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/botstate"
	}
	if cfg.TradeHistoryPath == "" {
		cfg.TradeHistoryPath = "data/trades.db"
	}
	if cfg.DemoBalance <= 0 {
		cfg.DemoBalance = 10000.0
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.LogConfig.Output == "" {
		cfg.LogConfig.Output = "console"
	}
}
