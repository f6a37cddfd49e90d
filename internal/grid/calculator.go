package grid

import (
	"math"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// ValidateConfig rejects a GridConfig that cannot define a usable grid.
// Violations are configuration errors: a bot is never partially constructed
// from a config that fails here.
func ValidateConfig(cfg models.GridConfig) error {
	if cfg.Symbol == "" {
		return &models.ConfigError{Field: "symbol", Msg: "must not be empty"}
	}
	if cfg.LowerPrice <= 0 {
		return &models.ConfigError{Field: "lower_price", Msg: "must be positive"}
	}
	if cfg.UpperPrice <= cfg.LowerPrice {
		return &models.ConfigError{Field: "upper_price", Msg: "must be greater than lower_price"}
	}
	if cfg.GridCount < 1 {
		return &models.ConfigError{Field: "grid_count", Msg: "must be at least 1"}
	}
	if cfg.Investment <= 0 {
		return &models.ConfigError{Field: "investment", Msg: "must be positive"}
	}
	if cfg.Mode != models.ModeDemo && cfg.Mode != models.ModeReal {
		return &models.ConfigError{Field: "mode", Msg: `must be "demo" or "real"`}
	}
	return nil
}

// ComputeLevels derives the gridCount+1 evenly spaced price levels of a grid
// and the capital allocated per grid slot. Levels are rounded to 2 decimals;
// live-price comparisons use Tolerance instead of exact equality for that
// reason. Pure function of the config.
func ComputeLevels(cfg models.GridConfig) (levels []float64, amountPerGrid float64) {
	spacing := (cfg.UpperPrice - cfg.LowerPrice) / float64(cfg.GridCount)

	levels = make([]float64, 0, cfg.GridCount+1)
	for i := 0; i <= cfg.GridCount; i++ {
		price := cfg.LowerPrice + float64(i)*spacing
		levels = append(levels, round2(price))
	}

	amountPerGrid = cfg.Investment / float64(cfg.GridCount)
	return levels, amountPerGrid
}

// Tolerance is half the nominal spacing between adjacent levels. A level is
// treated as a slot: any position within Tolerance of it occupies it.
func Tolerance(cfg models.GridConfig) float64 {
	return (cfg.UpperPrice - cfg.LowerPrice) / float64(cfg.GridCount) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
