package backtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

func testGridConfig() models.GridConfig {
	return models.GridConfig{
		Symbol:     "BTCUSDT",
		LowerPrice: 100,
		UpperPrice: 200,
		GridCount:  5,
		Investment: 500,
		Mode:       models.ModeDemo,
	}
}

func writeKlines(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "klines.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunReplaysKlineFile(t *testing.T) {
	// open_time,open,high,low,close
	data := "open_time,open,high,low,close\n" +
		"1700000000000,96,97,94,95\n" +
		"1700000060000,95,116,95,115\n" +
		"1700000120000,115,125,114,125\n"

	err := Run(testGridConfig(), writeKlines(t, data))
	assert.NoError(t, err)
}

func TestRunSkipsMalformedRecords(t *testing.T) {
	data := "open_time,open,high,low,close\n" +
		"1700000000000,96,97,94,95\n" +
		"1700000060000,95,116,95,notanumber\n" +
		"1700000120000,115,125,114,125\n"

	err := Run(testGridConfig(), writeKlines(t, data))
	assert.NoError(t, err)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testGridConfig()
	cfg.Investment = -1

	err := Run(cfg, writeKlines(t, "open_time,open,high,low,close\n1700000000000,96,97,94,95\n"))
	var cfgErr *models.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunRejectsMissingFile(t *testing.T) {
	err := Run(testGridConfig(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "failed to open data file")
}

func TestRunRejectsHeaderOnlyFile(t *testing.T) {
	err := Run(testGridConfig(), writeKlines(t, "open_time,open,high,low,close\n"))
	assert.ErrorContains(t, err, "header-only")
}
