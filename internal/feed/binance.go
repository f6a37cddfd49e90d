package feed

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"
)

// BinanceFeed fetches ticker prices over the Binance REST API. The price
// endpoint is public, no API key is required.
type BinanceFeed struct {
	client *binance.Client
}

// NewBinanceFeed creates a REST price feed. baseURL overrides the default
// API endpoint when non-empty (testnet, mirrors).
func NewBinanceFeed(baseURL string) *BinanceFeed {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceFeed{client: client}
}

// CurrentPrice returns the latest ticker price for symbol.
func (f *BinanceFeed) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := f.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("%w: no ticker for %s", ErrPriceUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad ticker price %q", ErrPriceUnavailable, prices[0].Price)
	}
	return price, nil
}
