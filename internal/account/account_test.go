package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/models"
)

func buyEvent(value, fee, amount float64) models.TradeEvent {
	return models.TradeEvent{
		BotID:     "grid_1",
		Symbol:    "BTCUSDT",
		Mode:      models.ModeDemo,
		Side:      models.Buy,
		Price:     value / amount,
		Amount:    amount,
		Value:     value,
		Fee:       fee,
		Timestamp: time.Now(),
	}
}

func sellEvent(value, fee, amount, profit float64) models.TradeEvent {
	ev := buyEvent(value, fee, amount)
	ev.Side = models.Sell
	ev.Profit = profit
	return ev
}

func TestApplyBuy(t *testing.T) {
	m := NewManager(10000)

	m.Apply(buyEvent(100, 0.1, 0.002))

	snap := m.Snapshot(models.ModeDemo)
	assert.Equal(t, 9899.9, snap.Balance)
	assert.Equal(t, 10000.0, snap.InitialBalance)
	assert.Equal(t, 0.002, snap.Holdings["BTC"])
	assert.Equal(t, 1, snap.TradesToday)
	assert.Zero(t, snap.TotalProfit)
}

func TestApplySellBooksProfit(t *testing.T) {
	m := NewManager(10000)

	m.Apply(buyEvent(100, 0.1, 0.002))
	m.Apply(sellEvent(110, 0.11, 0.002, 9.79))

	snap := m.Snapshot(models.ModeDemo)
	assert.InDelta(t, 10000-100-0.1+110-0.11, snap.Balance, 1e-9)
	assert.Zero(t, snap.Holdings["BTC"])
	assert.Equal(t, 9.79, snap.TotalProfit)
	assert.Equal(t, 2, snap.TradesToday)
	assert.Equal(t, 100.0, snap.WinRate)
}

func TestWinRate(t *testing.T) {
	m := NewManager(10000)

	m.Apply(sellEvent(110, 0.11, 0.002, 5))
	m.Apply(sellEvent(110, 0.11, 0.002, 3))
	m.Apply(sellEvent(90, 0.09, 0.002, -2))

	snap := m.Snapshot(models.ModeDemo)
	assert.InDelta(t, 66.7, snap.WinRate, 1e-9)
}

func TestWinRateWithoutSellsIsZero(t *testing.T) {
	m := NewManager(10000)
	m.Apply(buyEvent(100, 0.1, 0.002))
	assert.Zero(t, m.Snapshot(models.ModeDemo).WinRate)
}

func TestModesSettleSeparately(t *testing.T) {
	m := NewManager(10000)

	demo := buyEvent(100, 0.1, 0.002)
	real := buyEvent(50, 0.05, 0.001)
	real.Mode = models.ModeReal

	m.Apply(demo)
	m.Apply(real)

	assert.Equal(t, 9899.9, m.Snapshot(models.ModeDemo).Balance)
	assert.Equal(t, -50.05, m.Snapshot(models.ModeReal).Balance)
	assert.Equal(t, 0.002, m.Snapshot(models.ModeDemo).Holdings["BTC"])
	assert.Equal(t, 0.001, m.Snapshot(models.ModeReal).Holdings["BTC"])
}

func TestResetDemo(t *testing.T) {
	m := NewManager(10000)

	m.Apply(buyEvent(100, 0.1, 0.002))
	m.Apply(sellEvent(110, 0.11, 0.002, 9.79))
	m.ResetDemo()

	snap := m.Snapshot(models.ModeDemo)
	assert.Equal(t, 10000.0, snap.Balance)
	assert.Empty(t, snap.Holdings)
	assert.Zero(t, snap.TotalProfit)
	assert.Zero(t, snap.TradesToday)
	assert.Zero(t, snap.WinRate)
}

func TestResetDemoLeavesRealAlone(t *testing.T) {
	m := NewManager(10000)

	real := buyEvent(50, 0.05, 0.001)
	real.Mode = models.ModeReal
	m.Apply(real)

	m.ResetDemo()
	assert.Equal(t, -50.05, m.Snapshot(models.ModeReal).Balance)
	assert.Equal(t, 1, m.Snapshot(models.ModeReal).TradesToday)
}

func TestBaseAsset(t *testing.T) {
	assert.Equal(t, "BTC", baseAsset("BTCUSDT"))
	assert.Equal(t, "ETH", baseAsset("ETHUSDC"))
	assert.Equal(t, "SOL", baseAsset("SOLBUSD"))
	assert.Equal(t, "DOGE", baseAsset("DOGEUSD"))
	assert.Equal(t, "USDT", baseAsset("USDT"), "a bare quote symbol stays whole")
	assert.Equal(t, "BTCEUR", baseAsset("BTCEUR"))
}
