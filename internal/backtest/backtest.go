package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/grid"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/logger"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
	"github.com/samilkawa480-lang/p2p-trading-bot/internal/reporter"
)

// Run replays the close prices of a kline CSV through a fresh bot built from
// cfg and prints the resulting report. The replay drives the same engine the
// live scheduler drives; only the price source differs.
func Run(cfg models.GridConfig, dataPath string) error {
	b, err := grid.NewBot("backtest", cfg, time.Now())
	if err != nil {
		return err
	}
	b.Start()

	file, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV records: %w", err)
	}
	if len(records) <= 1 {
		return fmt.Errorf("data file %s is empty or header-only", dataPath)
	}
	records = records[1:] // drop header

	startMs, _ := strconv.ParseInt(records[0][0], 10, 64)
	endMs, _ := strconv.ParseInt(records[len(records)-1][0], 10, 64)
	start := time.UnixMilli(startMs)
	end := time.UnixMilli(endMs)

	logger.S().Infof("replaying %d ticks for %s", len(records), cfg.Symbol)

	ticks := 0
	lastPrice := 0.0
	for _, record := range records {
		if len(record) < 5 {
			logger.S().Warnf("skipping malformed record: %v", record)
			continue
		}
		closePrice, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			logger.S().Warnf("skipping record with bad close price: %v", record)
			continue
		}

		events := b.OnPriceTick(closePrice)
		for _, ev := range events {
			logger.S().Debugf("%s %.5f @ %.2f (profit %.4f)", ev.Side, ev.Amount, ev.Price, ev.Profit)
		}
		lastPrice = closePrice
		ticks++
	}

	logger.S().Info("replay finished")
	reporter.PrintReport(reporter.CalculateMetrics(b, ticks, lastPrice, start, end), dataPath)
	return nil
}
