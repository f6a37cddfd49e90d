package models

import "time"

// Side is the direction of a position or trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Mode selects which account a bot's trades settle against.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeReal Mode = "real"
)

// GridConfig is the immutable configuration of one grid bot.
type GridConfig struct {
	Symbol     string  `json:"symbol"`
	LowerPrice float64 `json:"lower_price"`
	UpperPrice float64 `json:"upper_price"`
	GridCount  int     `json:"grid_count"`
	Investment float64 `json:"investment"`
	Mode       Mode    `json:"mode"`
}

// Position is one leg recorded in a bot's ledger. BUY positions stay open
// until matched by a later SELL; SELL positions are terminal. Positions are
// never deleted, the ledger is append-only.
type Position struct {
	ID           int       `json:"id"`
	Side         Side      `json:"side"`
	GridLevel    float64   `json:"grid_level"`           // nominal level that triggered the fill
	Price        float64   `json:"price"`                // execution price at trigger time
	AmountQuote  float64   `json:"amount_quote"`         // capital committed, quote currency
	AmountBase   float64   `json:"amount_base"`          // quantity of the traded asset
	Fee          float64   `json:"fee"`                  // AmountQuote * fee rate
	Closed       bool      `json:"closed"`               // BUY only: matched by a later SELL
	MatchedBuyID int       `json:"matched_buy_id,omitempty"` // SELL only
	Profit       float64   `json:"profit,omitempty"`     // SELL only: realized round-trip profit
	Timestamp    time.Time `json:"timestamp"`
}

// TradeEvent is the externally visible projection of a created Position.
// It is what the scheduler hands to the account ledger and the history store.
type TradeEvent struct {
	BotID     string    `json:"bot_id"`
	Symbol    string    `json:"symbol"`
	Mode      Mode      `json:"mode"`
	Side      Side      `json:"side"`
	Price     float64   `json:"price"`
	Amount    float64   `json:"amount"` // base quantity
	Value     float64   `json:"value"`  // quote value
	Fee       float64   `json:"fee"`
	Profit    float64   `json:"profit,omitempty"` // SELL only
	Timestamp time.Time `json:"timestamp"`
}

// BotSnapshot is a read-only view of one bot for status reporting. Monetary
// figures are rounded to 2 decimals for display.
type BotSnapshot struct {
	BotID       string    `json:"bot_id"`
	Symbol      string    `json:"symbol"`
	Mode        Mode      `json:"mode"`
	Active      bool      `json:"active"`
	LowerPrice  float64   `json:"lower_price"`
	UpperPrice  float64   `json:"upper_price"`
	GridCount   int       `json:"grid_count"`
	Investment  float64   `json:"investment"`
	GridLevels  []float64 `json:"grid_levels"`
	Profit      float64   `json:"profit"`
	TotalTrades int       `json:"total_trades"`
	OpenOrders  int       `json:"open_orders"`
	CreatedAt   time.Time `json:"created_at"`
}
