package feed

import (
	"context"
	"errors"
)

// ErrPriceUnavailable means the feed could not supply a price right now.
// Callers must skip the tick entirely; never substitute zero or a stale
// cached value for a price the feed refused to give.
var ErrPriceUnavailable = errors.New("price unavailable")

// PriceFeed supplies the current market price for a symbol on demand.
type PriceFeed interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}
