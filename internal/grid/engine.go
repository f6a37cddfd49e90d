package grid

import (
	"sync"
	"time"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// FeeRate is the flat fee applied to the quote value of both trade legs.
// Policy constant, not derived from the level spacing.
const FeeRate = 0.001

// Bot is one grid trading instance: immutable config plus the mutable
// trading state driven by price ticks. All state mutation happens inside
// OnPriceTick under the bot's own mutex, so ticks for the same bot are
// serialized while different bots tick in parallel.
type Bot struct {
	ID        string
	Config    models.GridConfig
	CreatedAt time.Time

	levels        []float64
	amountPerGrid float64
	tolerance     float64

	mu     sync.Mutex
	active bool
	ledger *Ledger
	trades int
	profit float64
}

// NewBot validates cfg and constructs an inactive bot with its derived grid.
func NewBot(id string, cfg models.GridConfig, now time.Time) (*Bot, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	levels, amountPerGrid := ComputeLevels(cfg)
	return &Bot{
		ID:            id,
		Config:        cfg,
		CreatedAt:     now,
		levels:        levels,
		amountPerGrid: amountPerGrid,
		tolerance:     Tolerance(cfg),
		ledger:        NewLedger(),
	}, nil
}

// Start activates the bot. Starting an already running bot is a no-op.
func (b *Bot) Start() {
	b.mu.Lock()
	b.active = true
	b.mu.Unlock()
}

// Stop deactivates the bot. A tick already in progress finishes; no new
// triggers fire afterwards. Open positions stay open.
func (b *Bot) Stop() {
	b.mu.Lock()
	b.active = false
	b.mu.Unlock()
}

// OnPriceTick evaluates every grid level against the current price and
// returns the trades executed this tick, in level order. An inactive bot
// returns nil immediately.
//
// Per level, the buy branch is checked first and the sell branch only when
// the buy condition is false, so a single level produces at most one action
// per tick. That bounds the number of trades per tick by the number of
// levels no matter how fast the price moves.
func (b *Bot) OnPriceTick(price float64) []models.TradeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return nil
	}

	now := time.Now()
	var events []models.TradeEvent

	for _, level := range b.levels {
		if price <= level && !b.ledger.HasBuyNear(level, b.tolerance) {
			// Price dropped to this level and the slot is free: buy.
			pos := b.ledger.RecordBuy(level, price, b.amountPerGrid, FeeRate, now)
			b.trades++
			events = append(events, b.event(pos))
		} else if price >= level && b.ledger.HasOpenBuyBelow(level) {
			// Price rose to this level with an unmatched buy underneath:
			// close the cheapest one.
			buy := b.ledger.CheapestOpenBuyBelow(level)
			if buy == nil {
				continue
			}
			pos := b.ledger.RecordSell(buy, level, price, FeeRate, now)
			b.trades++
			b.profit += pos.Profit
			events = append(events, b.event(pos))
		}
	}

	return events
}

func (b *Bot) event(p *models.Position) models.TradeEvent {
	return models.TradeEvent{
		BotID:     b.ID,
		Symbol:    b.Config.Symbol,
		Mode:      b.Config.Mode,
		Side:      p.Side,
		Price:     p.Price,
		Amount:    p.AmountBase,
		Value:     p.AmountQuote,
		Fee:       p.Fee,
		Profit:    p.Profit,
		Timestamp: p.Timestamp,
	}
}

// Active reports whether the bot is currently trading.
func (b *Bot) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Levels returns a copy of the bot's grid levels. The level set is immutable
// after construction, so no lock is needed here.
func (b *Bot) Levels() []float64 {
	out := make([]float64, len(b.levels))
	copy(out, b.levels)
	return out
}

// AmountPerGrid returns the capital allocated to each grid slot.
func (b *Bot) AmountPerGrid() float64 {
	return b.amountPerGrid
}

// Snapshot returns a read-only view of the bot for status reporting.
func (b *Bot) Snapshot() models.BotSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return models.BotSnapshot{
		BotID:       b.ID,
		Symbol:      b.Config.Symbol,
		Mode:        b.Config.Mode,
		Active:      b.active,
		LowerPrice:  b.Config.LowerPrice,
		UpperPrice:  b.Config.UpperPrice,
		GridCount:   b.Config.GridCount,
		Investment:  b.Config.Investment,
		GridLevels:  b.Levels(),
		Profit:      round2(b.profit),
		TotalTrades: b.trades,
		OpenOrders:  b.ledger.OpenCount(),
		CreatedAt:   b.CreatedAt,
	}
}

// Profit returns the cumulative realized profit of all closed round trips.
func (b *Bot) Profit() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.profit
}

// Positions exposes the ledger history for persistence and reporting.
func (b *Bot) Positions() []*models.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Positions()
}
