package downloader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/logger"
)

// KlineDownloader fetches historical candles from Binance for backtesting.
type KlineDownloader struct {
	client *binance.Client
}

// NewKlineDownloader creates a downloader. The kline endpoint is public,
// no API key is needed.
func NewKlineDownloader() *KlineDownloader {
	return &KlineDownloader{client: binance.NewClient("", "")}
}

// DownloadKlines writes 1-minute klines for symbol between startTime and
// endTime to a CSV file. An existing file is used as a cache and not
// re-downloaded.
func (d *KlineDownloader) DownloadKlines(symbol, filePath string, startTime, endTime time.Time) error {
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		logger.S().Infof("using cached kline data: %s", filePath)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"open_time", "open", "high", "low", "close", "volume", "close_time"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for t := startTime; t.Before(endTime); {
		klines, err := d.client.NewKlinesService().
			Symbol(symbol).
			Interval("1m").
			StartTime(t.UnixMilli()).
			Limit(1000). // Binance caps a single request at 1000 rows
			Do(context.Background())
		if err != nil {
			return fmt.Errorf("kline download failed: %w", err)
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			record := []string{
				fmt.Sprintf("%d", k.OpenTime),
				k.Open,
				k.High,
				k.Low,
				k.Close,
				k.Volume,
				fmt.Sprintf("%d", k.CloseTime),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}

		t = time.UnixMilli(klines[len(klines)-1].CloseTime + 1)
		logger.S().Infof("downloaded klines up to %s", t.Format("2006-01-02 15:04:05"))
		time.Sleep(200 * time.Millisecond) // stay clear of the rate limit
	}

	logger.S().Infof("kline data saved to %s", filePath)
	return nil
}
