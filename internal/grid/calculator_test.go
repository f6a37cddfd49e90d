package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

func validConfig() models.GridConfig {
	return models.GridConfig{
		Symbol:     "BTCUSDT",
		LowerPrice: 100,
		UpperPrice: 200,
		GridCount:  5,
		Investment: 500,
		Mode:       models.ModeDemo,
	}
}

func TestComputeLevels(t *testing.T) {
	levels, amountPerGrid := ComputeLevels(validConfig())

	assert.Equal(t, []float64{100, 120, 140, 160, 180, 200}, levels)
	assert.Equal(t, 100.0, amountPerGrid)
}

func TestComputeLevelsProperties(t *testing.T) {
	configs := []models.GridConfig{
		{Symbol: "BTCUSDT", LowerPrice: 100, UpperPrice: 200, GridCount: 5, Investment: 500, Mode: models.ModeDemo},
		{Symbol: "ETHUSDT", LowerPrice: 0.01, UpperPrice: 0.09, GridCount: 8, Investment: 40, Mode: models.ModeDemo},
		{Symbol: "BNBUSDT", LowerPrice: 250, UpperPrice: 251, GridCount: 1, Investment: 10, Mode: models.ModeReal},
		{Symbol: "SOLUSDT", LowerPrice: 33.33, UpperPrice: 99.99, GridCount: 7, Investment: 777, Mode: models.ModeDemo},
	}

	for _, cfg := range configs {
		levels, amountPerGrid := ComputeLevels(cfg)

		require.Len(t, levels, cfg.GridCount+1)
		assert.InDelta(t, cfg.LowerPrice, levels[0], 0.005)
		assert.InDelta(t, cfg.UpperPrice, levels[len(levels)-1], 0.005)
		for i := 1; i < len(levels); i++ {
			assert.Greater(t, levels[i], levels[i-1], "levels must be strictly increasing")
		}
		assert.InDelta(t, cfg.Investment/float64(cfg.GridCount), amountPerGrid, 1e-9)
	}
}

func TestComputeLevelsRoundsToTwoDecimals(t *testing.T) {
	cfg := models.GridConfig{
		Symbol:     "BTCUSDT",
		LowerPrice: 100,
		UpperPrice: 200,
		GridCount:  3,
		Investment: 300,
		Mode:       models.ModeDemo,
	}

	levels, _ := ComputeLevels(cfg)
	// 100 + 100/3 = 133.333..., rounded for display and comparison.
	assert.Equal(t, []float64{100, 133.33, 166.67, 200}, levels)
}

func TestTolerance(t *testing.T) {
	// Half the nominal grid spacing.
	assert.Equal(t, 10.0, Tolerance(validConfig()))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GridConfig)
	}{
		{"empty symbol", func(c *models.GridConfig) { c.Symbol = "" }},
		{"zero lower price", func(c *models.GridConfig) { c.LowerPrice = 0 }},
		{"negative lower price", func(c *models.GridConfig) { c.LowerPrice = -5 }},
		{"inverted bounds", func(c *models.GridConfig) { c.UpperPrice = 50 }},
		{"equal bounds", func(c *models.GridConfig) { c.UpperPrice = c.LowerPrice }},
		{"zero grids", func(c *models.GridConfig) { c.GridCount = 0 }},
		{"zero investment", func(c *models.GridConfig) { c.Investment = 0 }},
		{"bad mode", func(c *models.GridConfig) { c.Mode = "paper" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var cfgErr *models.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	assert.NoError(t, ValidateConfig(validConfig()))
}
