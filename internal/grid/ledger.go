package grid

import (
	"math"
	"time"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// Ledger tracks every position one bot has ever taken. It is append-only:
// a matched BUY is flagged closed, never removed. The ledger does no locking
// of its own; the engine serializes access per bot.
type Ledger struct {
	positions []*models.Position
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make([]*models.Position, 0)}
}

// HasBuyNear reports whether any BUY position fills within tolerance of the
// given level. Closed positions count too: a level stays occupied after its
// round trip completes, so each level buys at most once per bot lifetime.
func (l *Ledger) HasBuyNear(level, tolerance float64) bool {
	for _, p := range l.positions {
		if p.Side == models.Buy && math.Abs(p.Price-level) < tolerance {
			return true
		}
	}
	return false
}

// HasOpenBuyBelow reports whether an unmatched BUY exists with an execution
// price strictly below level. A sell trigger is only legal when this holds,
// which guarantees every round trip captures a spread.
func (l *Ledger) HasOpenBuyBelow(level float64) bool {
	for _, p := range l.positions {
		if p.Side == models.Buy && !p.Closed && p.Price < level {
			return true
		}
	}
	return false
}

// CheapestOpenBuyBelow returns the open BUY with the lowest execution price
// strictly below level, or nil. Ties resolve to the earliest position.
// Closing the cheapest buy first locks in the largest available spread and
// sheds the lowest-priced standing exposure.
func (l *Ledger) CheapestOpenBuyBelow(level float64) *models.Position {
	var best *models.Position
	for _, p := range l.positions {
		if p.Side != models.Buy || p.Closed || p.Price >= level {
			continue
		}
		if best == nil || p.Price < best.Price {
			best = p
		}
	}
	return best
}

// RecordBuy appends an open BUY position filled at price for the given grid
// level. The fee is tracked alongside the position rather than deducted from
// the deployed capital, so both legs of a round trip account fees the same way.
func (l *Ledger) RecordBuy(level, price, amountQuote, feeRate float64, now time.Time) *models.Position {
	p := &models.Position{
		ID:          len(l.positions) + 1,
		Side:        models.Buy,
		GridLevel:   level,
		Price:       price,
		AmountQuote: amountQuote,
		AmountBase:  amountQuote / price,
		Fee:         amountQuote * feeRate,
		Timestamp:   now,
	}
	l.positions = append(l.positions, p)
	return p
}

// RecordSell closes buy against a fill at price, appends the terminal SELL
// position and returns it. Profit is sale proceeds minus original cost minus
// the fees of both legs.
func (l *Ledger) RecordSell(buy *models.Position, level, price, feeRate float64, now time.Time) *models.Position {
	amountBase := buy.AmountBase
	amountQuote := amountBase * price
	fee := amountQuote * feeRate

	buy.Closed = true

	p := &models.Position{
		ID:           len(l.positions) + 1,
		Side:         models.Sell,
		GridLevel:    level,
		Price:        price,
		AmountQuote:  amountQuote,
		AmountBase:   amountBase,
		Fee:          fee,
		MatchedBuyID: buy.ID,
		Profit:       amountQuote - buy.AmountQuote - fee - buy.Fee,
		Timestamp:    now,
	}
	l.positions = append(l.positions, p)
	return p
}

// OpenCount returns the number of unmatched BUY positions.
func (l *Ledger) OpenCount() int {
	n := 0
	for _, p := range l.positions {
		if p.Side == models.Buy && !p.Closed {
			n++
		}
	}
	return n
}

// Positions returns the full position history in insertion order. Callers
// must not mutate the returned slice.
func (l *Ledger) Positions() []*models.Position {
	return l.positions
}
