package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/account"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/backtest"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/bot"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/config"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/downloader"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/feed"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/logger"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/persistence"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/scheduler"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/server"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/storage"
)

// extractSymbolFromPath pulls the trading pair out of a data file path,
// e.g. "data/BTCUSDT-2025-03-15-2025-06-15.csv" -> "BTCUSDT".
func extractSymbolFromPath(path string) string {
	name := strings.TrimSuffix(path, ".csv")
	parts := strings.Split(name, "/")
	fileName := parts[len(parts)-1]

	symbolParts := strings.Split(fileName, "-")
	if len(symbolParts) > 0 {
		return symbolParts[0]
	}
	return ""
}

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	mode := flag.String("mode", "serve", "running mode: serve or backtest")
	dataPath := flag.String("data", "", "path to historical data file for backtesting")
	symbol := flag.String("symbol", "", "symbol to backtest (e.g., BTCUSDT)")
	startDate := flag.String("start", "", "start date for backtesting (YYYY-MM-DD)")
	endDate := flag.String("end", "", "end date for backtesting (YYYY-MM-DD)")
	flag.Parse()

	// A console logger is needed before the config file loads.
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	if err := godotenv.Load(); err != nil {
		logger.S().Info("no .env file found, reading from system environment")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	switch *mode {
	case "serve":
		runServeMode(cfg)
	case "backtest":
		finalDataPath, err := resolveBacktestData(*symbol, *startDate, *endDate, *dataPath)
		if err != nil {
			logger.S().Fatal(err)
		}
		runBacktestMode(cfg, finalDataPath)
	default:
		logger.S().Fatalf("unknown mode %q, choose 'serve' or 'backtest'", *mode)
	}
}

// resolveBacktestData downloads kline data when a symbol and date range are
// given, otherwise it requires an explicit data path.
func resolveBacktestData(symbol, startDate, endDate, dataPath string) (string, error) {
	shouldDownload := symbol != "" && startDate != "" && endDate != ""

	if shouldDownload {
		startTime, err1 := time.Parse("2006-01-02", startDate)
		endTime, err2 := time.Parse("2006-01-02", endDate)
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("bad date format, use YYYY-MM-DD (start: %v, end: %v)", err1, err2)
		}

		fileName := fmt.Sprintf("data/%s-%s-%s.csv", symbol, startDate, endDate)
		dl := downloader.NewKlineDownloader()
		if err := dl.DownloadKlines(symbol, fileName, startTime, endTime); err != nil {
			return "", fmt.Errorf("kline download failed: %w", err)
		}
		return fileName, nil
	}

	if dataPath == "" {
		return "", fmt.Errorf("backtest mode needs either -data or -symbol/-start/-end")
	}
	return dataPath, nil
}

// runServeMode starts the trading service: controller, scheduler and HTTP API.
func runServeMode(cfg *models.Config) {
	logger.S().Info("--- starting trading service ---")

	var priceFeed feed.PriceFeed
	var streamFeed *feed.StreamFeed
	if cfg.FeedMode == "stream" {
		streamFeed = feed.NewStreamFeed(cfg.BinanceWSURL, cfg.Symbol)
		priceFeed = streamFeed
		defer streamFeed.Close()
	} else {
		priceFeed = feed.NewBinanceFeed(cfg.BinanceAPIURL)
	}

	historyDB, err := storage.InitDB(cfg.TradeHistoryPath)
	if err != nil {
		logger.S().Fatalf("failed to open trade history db: %v", err)
	}
	defer historyDB.Close()

	repo, err := persistence.NewBadgerRepository(cfg.DBPath)
	if err != nil {
		logger.S().Fatalf("failed to open state db: %v", err)
	}
	defer repo.Close()

	controller := bot.NewController()
	accounts := account.NewManager(cfg.DemoBalance)

	sched := scheduler.New(controller, priceFeed, accounts, historyDB, repo,
		time.Duration(cfg.TickIntervalSec)*time.Second)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(controller, accounts, priceFeed, historyDB).Router(),
	}
	go func() {
		logger.S().Infof("HTTP API listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.S().Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.S().Info("shutting down...")
	srv.Close()
}

// runBacktestMode replays historical data through one bot and reports.
func runBacktestMode(cfg *models.Config, dataPath string) {
	logger.S().Info("--- starting backtest mode ---")

	gridCfg := cfg.BacktestGrid
	if symbol := extractSymbolFromPath(dataPath); symbol != "" {
		gridCfg.Symbol = symbol
	}
	if gridCfg.Mode == "" {
		gridCfg.Mode = models.ModeDemo
	}

	if err := backtest.Run(gridCfg, dataPath); err != nil {
		logger.S().Fatalf("backtest failed: %v", err)
	}
}
