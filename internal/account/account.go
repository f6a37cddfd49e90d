package account

import (
	"math"
	"strings"
	"sync"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

// Account is the balance book of one trading mode. It is a plain value;
// all access goes through the Manager, which owns the locking.
type Account struct {
	Balance        float64
	InitialBalance float64
	Holdings       map[string]float64 // base asset quantity per symbol
	TotalProfit    float64
	TradesToday    int
	Wins           int
	Losses         int
}

// Snapshot is the display view of an account, rounded to 2 decimals.
type Snapshot struct {
	Mode           models.Mode        `json:"mode"`
	Balance        float64            `json:"balance"`
	InitialBalance float64            `json:"initial_balance"`
	Holdings       map[string]float64 `json:"holdings"`
	TotalProfit    float64            `json:"total_profit"`
	TradesToday    int                `json:"trades_today"`
	WinRate        float64            `json:"win_rate"`
}

// Manager holds the demo and real accounts and applies trade events to them.
// Events for a mode settle against that mode's account only.
type Manager struct {
	mu          sync.RWMutex
	demo        *Account
	real        *Account
	demoBalance float64
}

// NewManager creates both accounts. The demo account starts funded; the real
// account starts empty and fills from whatever the surrounding system wires in.
func NewManager(demoBalance float64) *Manager {
	return &Manager{
		demo:        newAccount(demoBalance),
		real:        newAccount(0),
		demoBalance: demoBalance,
	}
}

func newAccount(balance float64) *Account {
	return &Account{
		Balance:        balance,
		InitialBalance: balance,
		Holdings:       make(map[string]float64),
	}
}

// Apply settles one trade event against the account of its mode. A buy moves
// quote balance into holdings and pays its fee; a sell does the reverse and
// books the realized profit as a win or a loss.
func (m *Manager) Apply(ev models.TradeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct := m.account(ev.Mode)
	asset := baseAsset(ev.Symbol)

	switch ev.Side {
	case models.Buy:
		acct.Balance -= ev.Value + ev.Fee
		acct.Holdings[asset] += ev.Amount
	case models.Sell:
		acct.Balance += ev.Value - ev.Fee
		acct.Holdings[asset] -= ev.Amount
		acct.TotalProfit += ev.Profit
		if ev.Profit > 0 {
			acct.Wins++
		} else {
			acct.Losses++
		}
	}
	acct.TradesToday++
}

// ResetDemo replaces the demo account with a freshly funded one. The old
// value is swapped out whole; concurrent readers never observe a half-reset
// account.
func (m *Manager) ResetDemo() {
	m.mu.Lock()
	m.demo = newAccount(m.demoBalance)
	m.mu.Unlock()
}

// Snapshot returns the display view of the account for the given mode.
func (m *Manager) Snapshot(mode models.Mode) Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct := m.account(mode)
	holdings := make(map[string]float64, len(acct.Holdings))
	for k, v := range acct.Holdings {
		holdings[k] = v
	}

	winRate := 0.0
	if acct.Wins+acct.Losses > 0 {
		winRate = float64(acct.Wins) / float64(acct.Wins+acct.Losses) * 100
	}

	return Snapshot{
		Mode:           mode,
		Balance:        round2(acct.Balance),
		InitialBalance: acct.InitialBalance,
		Holdings:       holdings,
		TotalProfit:    round2(acct.TotalProfit),
		TradesToday:    acct.TradesToday,
		WinRate:        math.Round(winRate*10) / 10,
	}
}

func (m *Manager) account(mode models.Mode) *Account {
	if mode == models.ModeReal {
		return m.real
	}
	return m.demo
}

// baseAsset strips the quote suffix off a symbol, "BTCUSDT" -> "BTC".
// Unknown quote currencies keep the full symbol as the holding key.
func baseAsset(symbol string) string {
	for _, quote := range []string{"USDT", "USDC", "BUSD", "USD"} {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			return strings.TrimSuffix(symbol, quote)
		}
	}
	return symbol
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
